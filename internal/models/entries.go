package models

// HeartRateEntry is the API view of one heart rate sample. Times are epoch
// milliseconds (absolute) and milliseconds from the start of the record.
type HeartRateEntry struct {
	Time          int64 `json:"time"`
	TimeElapsedMs int64 `json:"timeElapsedMs"`
	HeartRateBpm  int16 `json:"heartRateBpm"`
	Confidence    uint8 `json:"confidence"`
	PPGRaw        int32 `json:"ppgRaw"`
	PPGFilter     int32 `json:"ppgFilter"`
}

// NewHeartRateEntry creates the API view of a heart rate sample.
func NewHeartRateEntry(s HeartRateSample) HeartRateEntry {
	return HeartRateEntry{
		Time:          s.TimeAbsolute.UnixMilli(),
		TimeElapsedMs: s.TimeElapsed.Milliseconds(),
		HeartRateBpm:  s.BPM,
		Confidence:    s.Confidence,
		PPGRaw:        s.PPGRaw,
		PPGFilter:     s.PPGFilter,
	}
}

// AccelEntry is the API view of one acceleration sample.
type AccelEntry struct {
	Time          int64 `json:"time"`
	TimeElapsedMs int64 `json:"timeElapsedMs"`
	X             int32 `json:"x"`
	Y             int32 `json:"y"`
	Z             int32 `json:"z"`
	Magnitude     int32 `json:"magnitude"`
	Difference    int32 `json:"difference"`
}

// NewAccelEntry creates the API view of an acceleration sample.
func NewAccelEntry(s AccelSample) AccelEntry {
	return AccelEntry{
		Time:          s.TimeAbsolute.UnixMilli(),
		TimeElapsedMs: s.TimeElapsed.Milliseconds(),
		X:             s.X,
		Y:             s.Y,
		Z:             s.Z,
		Magnitude:     s.Magnitude,
		Difference:    s.Difference,
	}
}

// SurveyEntry is the API view of one answered survey item.
type SurveyEntry struct {
	Time          int64  `json:"time"`
	TimeElapsedMs int64  `json:"timeElapsedMs"`
	Number        int64  `json:"number"`
	Item          int64  `json:"item"`
	Question      string `json:"question"`
	Input         string `json:"input"`
	Range         any    `json:"range"`
	Response      any    `json:"response"`
}

// NewSurveyEntry creates the API view of a survey response.
func NewSurveyEntry(s SurveyResponse) SurveyEntry {
	return SurveyEntry{
		Time:          s.TimeAbsolute.UnixMilli(),
		TimeElapsedMs: s.TimeElapsed.Milliseconds(),
		Number:        s.Number,
		Item:          s.Item,
		Question:      s.Question,
		Input:         s.Input,
		Range:         s.Range,
		Response:      s.Response,
	}
}

// RecordingEntry is the API view of a single recording, exposing its full
// metadata alongside the summary fields.
type RecordingEntry struct {
	RecordingSummary
	Metadata Metadata `json:"metadata"`
}

// NewRecordingEntry creates the API view of a recording.
func NewRecordingEntry(rec *Recording) RecordingEntry {
	return RecordingEntry{
		RecordingSummary: rec.Summarize(),
		Metadata:         rec.Metadata,
	}
}

// NewStudyReference builds the reference for the study a recording belongs to.
func NewStudyReference(m Metadata) StudyReference {
	return StudyReference{
		Name:     m.String(MetaStudyName),
		Instance: m.String(MetaStudyInstance),
	}
}
