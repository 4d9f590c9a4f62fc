package models

import "time"

// HeartRateSample is one row of heart rate data written by BEATwatch.
type HeartRateSample struct {
	TimeElapsed  time.Duration `json:"timeElapsed"`
	TimeAbsolute time.Time     `json:"timeAbsolute"`
	BPM          int16         `json:"heartRateBpm"`
	Confidence   uint8         `json:"confidence"`
	PPGRaw       int32         `json:"ppgRaw"`
	PPGFilter    int32         `json:"ppgFilter"`
}

// AccelSample is one row of acceleration data written by BEATwatch.
// Magnitude and Difference are computed on the watch, not here.
type AccelSample struct {
	TimeElapsed  time.Duration `json:"timeElapsed"`
	TimeAbsolute time.Time     `json:"timeAbsolute"`
	X            int32         `json:"x"`
	Y            int32         `json:"y"`
	Z            int32         `json:"z"`
	Magnitude    int32         `json:"magnitude"`
	Difference   int32         `json:"difference"`
}

// SurveyResponse is one answered survey item recorded by BEATwatch.
// Range and Response keep whatever shape the watch wrote (scalar or list).
type SurveyResponse struct {
	Number       int64         `json:"number"`
	Item         int64         `json:"item"`
	Question     string        `json:"question"`
	Input        string        `json:"input"`
	Range        any           `json:"range"`
	Response     any           `json:"response"`
	TimeAbsolute time.Time     `json:"timeAbsolute"`
	TimeElapsed  time.Duration `json:"timeElapsed"`
}
