package parser

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"beatwatch.beatmonitor.org/internal/logging"
	"beatwatch.beatmonitor.org/internal/metrics"
	"beatwatch.beatmonitor.org/internal/models"
)

// DefaultFileVersion is assumed when the caller does not know which
// BEATwatch release wrote a file. Heart rate files written by BEATwatch
// < 0.2.0 store bpm multiplied by ten.
const DefaultFileVersion = 0.1

const (
	numHeartRateFields = 5
	numAccelFields     = 6
)

// Parser reads raw files created by the BEATwatch application. Timestamps
// default to time-aware UTC; optionally configure the timezone of the
// records.
type Parser struct {
	loc    *time.Location
	logger *slog.Logger
}

// New creates a Parser for the given IANA timezone name. An empty timezone
// means UTC.
func New(timezone string, logger *slog.Logger) (*Parser, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if timezone == "" {
		timezone = "UTC"
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	return &Parser{loc: loc, logger: logger}, nil
}

// Location returns the timezone records are reported in.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// ParseFile reads any file created by the BEATwatch application. Data can
// include either, or a mix of, heart rate, acceleration, or survey
// responses.
func (p *Parser) ParseFile(path string, version float64) (*models.Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer logging.SafeCloseWithLogging(f, p.logger, "raw_file")

	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	p.logger.Info("reading raw file", slog.String("file", path))
	return p.Parse(f, id, version)
}

// jsonObject is one decoded metadata or survey line, kept in file order.
type jsonObject struct {
	line int
	obj  map[string]any
}

// Parse reads raw BEATwatch data from r. id names the resulting recording.
func (p *Parser) Parse(r io.Reader, id string, version float64) (*models.Recording, error) {
	var (
		jsonObjs  []jsonObject
		hrRows    []models.HeartRateSample
		accelRows []models.AccelSample

		droppedHR    int
		droppedAccel int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line[0] == '{' {
			var obj map[string]any
			if err := json.Unmarshal([]byte(line), &obj); err != nil {
				logging.LogParseWarning(p.logger, "error reading json line",
					slog.Int("line", lineNo), slog.String("file", id))
				continue
			}
			jsonObjs = append(jsonObjs, jsonObject{line: lineNo, obj: obj})
			continue
		}

		row, err := csv.NewReader(strings.NewReader(line)).Read()
		if err != nil || len(row) == 0 {
			logging.LogParseWarning(p.logger, "unreadable data line",
				slog.Int("line", lineNo), slog.String("file", id))
			continue
		}

		switch {
		case strings.HasPrefix(row[0], "A") && len(row) == numAccelFields:
			row[0] = strings.TrimPrefix(row[0], "A")
			sample, ok := parseAccelRow(row)
			if !ok {
				droppedAccel++
				continue
			}
			accelRows = append(accelRows, sample)
		case strings.HasPrefix(row[0], "A"):
			logging.LogParseWarning(p.logger, "bad accel row",
				slog.Int("line", lineNo), slog.Int("fields", len(row)))
		case leadsWithDigit(row[0]) && len(row) == numHeartRateFields:
			sample, ok := parseHeartRateRow(row, version)
			if !ok {
				droppedHR++
				continue
			}
			hrRows = append(hrRows, sample)
		case leadsWithDigit(row[0]):
			logging.LogParseWarning(p.logger, "bad hr row",
				slog.Int("line", lineNo), slog.Int("fields", len(row)))
		default:
			logging.LogParseWarning(p.logger, "unknown data",
				slog.Int("line", lineNo), slog.String("row", line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", id, err)
	}

	if droppedHR > 0 {
		logging.LogParseWarning(p.logger, "dropped hr rows due to missing values",
			slog.Int("dropped", droppedHR), slog.String("file", id))
	}
	if droppedAccel > 0 {
		logging.LogParseWarning(p.logger, "dropped accel rows due to missing values",
			slog.Int("dropped", droppedAccel), slog.String("file", id))
	}
	metrics.AddRowsDropped(droppedHR + droppedAccel)

	meta, survey := p.processJSONObjects(jsonObjs)

	// Add absolute timestamps to hr/accel data.
	start, startOK := meta.StartTimestamp(p.loc)
	if !startOK {
		logging.LogParseWarning(p.logger, "could not find valid start timestamp",
			slog.String("file", id))
	} else {
		for i := range hrRows {
			hrRows[i].TimeAbsolute = start.Add(hrRows[i].TimeElapsed)
		}
		for i := range accelRows {
			accelRows[i].TimeAbsolute = start.Add(accelRows[i].TimeElapsed)
		}
		for i := range survey {
			survey[i].TimeElapsed = survey[i].TimeAbsolute.Sub(start)
		}
	}

	// Record what reading the file produced.
	meta.Merge(models.Metadata{
		models.MetaSamplesHR:       int64(len(hrRows)),
		models.MetaSamplesAccel:    int64(len(accelRows)),
		models.MetaSurveyResponses: int64(len(survey)),
		models.MetaDurationHR:      maxElapsedMillis(hrRows, func(s models.HeartRateSample) time.Duration { return s.TimeElapsed }),
		models.MetaDurationAccel:   maxElapsedMillis(accelRows, func(s models.AccelSample) time.Duration { return s.TimeElapsed }),
	})

	return &models.Recording{
		ID:        id,
		Metadata:  meta,
		HeartRate: hrRows,
		Accel:     accelRows,
		Survey:    survey,
	}, nil
}

// processJSONObjects gets metadata from metadata objects and returns survey
// data from survey responses.
func (p *Parser) processJSONObjects(objs []jsonObject) (models.Metadata, []models.SurveyResponse) {
	meta := models.NewMetadata(time.Now())
	var survey []models.SurveyResponse

	if len(objs) == 0 {
		logging.LogParseWarning(p.logger, "no metadata")
	}

	for _, o := range objs {
		switch {
		case o.obj["File"] != nil: // File information
			if file, ok := o.obj["File"].(map[string]any); ok {
				meta.Merge(models.Metadata(file))
			}
		case o.obj["Status"] != nil: // Record information (new format)
			status, ok := o.obj["Status"].(map[string]any)
			if !ok {
				continue
			}
			for k, v := range status {
				meta["status_"+k] = v
			}
			record, _ := o.obj["Record"].(map[string]any)
			mergeRecordInfo(meta, record, asString(status["state"]))
		case o.obj["Record"] != nil: // Record information (old format)
			record, ok := o.obj["Record"].(map[string]any)
			if !ok {
				continue
			}
			mergeRecordInfo(meta, record, asString(record["State"]))
		case o.obj["question"] != nil: // Survey results
			survey = append(survey, p.surveyResponse(o.obj))
		default:
			logging.LogParseWarning(p.logger, "unknown object", slog.Int("line", o.line))
		}
	}

	return meta, survey
}

// mergeRecordInfo prefixes the record keys according to the record state.
func mergeRecordInfo(meta models.Metadata, record map[string]any, state string) {
	if record == nil {
		return
	}

	var prefix string
	switch state {
	case "START_RECORD":
		prefix = "start_"
	case "STOP_RECORD":
		prefix = "stop_"
	default:
		return
	}

	for k, v := range record {
		meta[prefix+k] = v
	}
}

func (p *Parser) surveyResponse(obj map[string]any) models.SurveyResponse {
	resp := models.SurveyResponse{
		Number:   asInt64(obj["number"]),
		Item:     asInt64(obj["item"]),
		Question: asString(obj["question"]),
		Input:    asString(obj["input"]),
		Range:    obj["range"],
		Response: obj["response"],
	}

	if ms, ok := obj["timeStamp"].(float64); ok {
		resp.TimeAbsolute = time.UnixMilli(int64(ms)).In(p.loc)
	}

	return resp
}

func parseHeartRateRow(row []string, version float64) (models.HeartRateSample, bool) {
	elapsed, ok := parseMillis(row[0])
	if !ok {
		return models.HeartRateSample{}, false
	}

	bpm, ok := parseInt(row[1], 64)
	if !ok {
		return models.HeartRateSample{}, false
	}
	// Files from app releases before 0.2.0 store bpm multiplied by ten.
	// Half-to-even rounding keeps extracted values identical across
	// releases of this tool.
	if version < 0.2 {
		bpm = int64(math.RoundToEven(float64(bpm) / 10))
	}

	confidence, ok := parseUint(row[2], 8)
	if !ok {
		return models.HeartRateSample{}, false
	}
	ppgRaw, ok := parseInt(row[3], 32)
	if !ok {
		return models.HeartRateSample{}, false
	}
	ppgFilter, ok := parseInt(row[4], 32)
	if !ok {
		return models.HeartRateSample{}, false
	}

	return models.HeartRateSample{
		TimeElapsed: elapsed,
		BPM:         int16(bpm),
		Confidence:  uint8(confidence),
		PPGRaw:      int32(ppgRaw),
		PPGFilter:   int32(ppgFilter),
	}, true
}

func parseAccelRow(row []string) (models.AccelSample, bool) {
	elapsed, ok := parseMillis(row[0])
	if !ok {
		return models.AccelSample{}, false
	}

	vals := make([]int32, 5)
	for i := 0; i < 5; i++ {
		v, ok := parseInt(row[i+1], 32)
		if !ok {
			return models.AccelSample{}, false
		}
		vals[i] = int32(v)
	}

	return models.AccelSample{
		TimeElapsed: elapsed,
		X:           vals[0],
		Y:           vals[1],
		Z:           vals[2],
		Magnitude:   vals[3],
		Difference:  vals[4],
	}, true
}

// parseMillis converts an elapsed-milliseconds field to a duration.
func parseMillis(s string) (time.Duration, bool) {
	ms, ok := parseInt(s, 64)
	if !ok {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

// parseInt rejects empty fields, matching the original behavior of dropping
// rows with missing values.
func parseInt(s string, bits int) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseUint is parseInt for unsigned fields, so confidence covers the full
// 0-255 sensor range.
func parseUint(s string, bits int) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, false
	}
	return v, true
}

// leadsWithDigit reports whether a CSV field starts with a digit. An empty
// first field marks the row as unknown data rather than a heart rate row.
func leadsWithDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	default:
		return 0
	}
}

func maxElapsedMillis[S any](samples []S, elapsed func(S) time.Duration) int64 {
	var max time.Duration
	for _, s := range samples {
		if d := elapsed(s); d > max {
			max = d
		}
	}
	return max.Milliseconds()
}
