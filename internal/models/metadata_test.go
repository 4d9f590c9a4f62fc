package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadataDefaults(t *testing.T) {
	parsedOn := time.Date(2025, 3, 1, 21, 13, 42, 0, time.UTC)
	meta := NewMetadata(parsedOn)

	assert.Equal(t, "2025-03-01T21:13:42Z", meta.String(MetaParsedOn))
	assert.Equal(t, "NA", meta.String(MetaStudyName))
	assert.Equal(t, "NA", meta.String(MetaStudyInstance))
}

func TestMetadataMergeOverwritesAndAdds(t *testing.T) {
	meta := NewMetadata(time.Now())
	meta.Merge(Metadata{
		MetaStudyName: "pilot",
		"device":      "a6ed",
	})

	assert.Equal(t, "pilot", meta.String(MetaStudyName))
	assert.Equal(t, "a6ed", meta.String("device"))
	// Untouched defaults survive a merge.
	assert.Equal(t, "NA", meta.String(MetaStudyInstance))
}

func TestMetadataInt(t *testing.T) {
	meta := Metadata{
		"float":  float64(42),
		"int64":  int64(7),
		"string": "not a number",
	}

	n, ok := meta.Int("float")
	assert.True(t, ok)
	assert.EqualValues(t, 42, n)

	n, ok = meta.Int("int64")
	assert.True(t, ok)
	assert.EqualValues(t, 7, n)

	_, ok = meta.Int("string")
	assert.False(t, ok)

	_, ok = meta.Int("missing")
	assert.False(t, ok)
}

func TestMetadataStartTimestampEpochMillis(t *testing.T) {
	loc, err := time.LoadLocation("America/Toronto")
	require.NoError(t, err)

	// JSON numbers decode to float64.
	meta := Metadata{MetaStartUnixTimestamp: float64(1740862422000)}

	start, ok := meta.StartTimestamp(loc)
	require.True(t, ok)
	assert.Equal(t, int64(1740862422000), start.UnixMilli())
	assert.Equal(t, "America/Toronto", start.Location().String())
}

func TestMetadataStartTimestampString(t *testing.T) {
	meta := Metadata{MetaStartUnixTimestamp: "2025-03-01T16:13:42-05:00"}

	start, ok := meta.StartTimestamp(time.UTC)
	require.True(t, ok)
	assert.Equal(t, "2025-03-01T21:13:42Z", start.Format(time.RFC3339))

	meta = Metadata{MetaStartUnixTimestamp: "1740862422000"}
	start, ok = meta.StartTimestamp(time.UTC)
	require.True(t, ok)
	assert.Equal(t, int64(1740862422000), start.UnixMilli())
}

func TestMetadataStartTimestampMissing(t *testing.T) {
	meta := NewMetadata(time.Now())

	_, ok := meta.StartTimestamp(time.UTC)
	assert.False(t, ok)

	meta[MetaStartUnixTimestamp] = "garbage"
	_, ok = meta.StartTimestamp(time.UTC)
	assert.False(t, ok)
}

func TestRecordingSummarize(t *testing.T) {
	rec := &Recording{
		ID:       "03-01_time_21-13-42_a6ed_W023",
		Metadata: NewMetadata(time.Now()),
		HeartRate: []HeartRateSample{
			{TimeElapsed: 40 * time.Millisecond, BPM: 72},
			{TimeElapsed: 80 * time.Millisecond, BPM: 73},
		},
	}
	rec.Metadata.Merge(Metadata{
		MetaSamplesHR:  int64(2),
		MetaDurationHR: int64(80),
		MetaStudyName:  "pilot",
	})

	summary := rec.Summarize()
	assert.Equal(t, "03-01_time_21-13-42_a6ed_W023", summary.ID)
	assert.Equal(t, "pilot", summary.StudyName)
	assert.EqualValues(t, 2, summary.SamplesHR)
	assert.EqualValues(t, 80, summary.DurationHRMs)
	// Counts not present in metadata fall back to stream lengths.
	assert.EqualValues(t, 0, summary.SamplesAccel)
	assert.EqualValues(t, 0, summary.SurveyResponses)
}
