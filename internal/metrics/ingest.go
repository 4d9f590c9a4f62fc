package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesParsedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beatwatch_files_parsed_total",
		Help: "Total number of raw BEATwatch files parsed, by result",
	}, []string{"result"})

	samplesIngestedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beatwatch_samples_ingested_total",
		Help: "Total number of samples ingested, by stream",
	}, []string{"stream"})

	rowsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beatwatch_rows_dropped_total",
		Help: "Total number of raw data rows dropped due to missing or malformed values",
	})
)

// IncFileParsed records the outcome of parsing one raw file. The result
// label is "ok" or "error".
func IncFileParsed(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	filesParsedTotal.WithLabelValues(result).Inc()
}

// AddSamplesIngested records samples stored for one stream: "hr", "accel"
// or "survey".
func AddSamplesIngested(stream string, n int) {
	switch stream {
	case "hr", "accel", "survey":
	default:
		stream = "unknown"
	}
	samplesIngestedTotal.WithLabelValues(stream).Add(float64(n))
}

// AddRowsDropped records rows discarded while parsing.
func AddRowsDropped(n int) {
	rowsDroppedTotal.Add(float64(n))
}
