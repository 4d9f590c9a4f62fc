package models

import "time"

// Recording is the parsed content of one raw BEATwatch file. A file can
// contain any mix of heart rate, acceleration and survey data, so any of
// the streams may be empty.
type Recording struct {
	ID        string
	Metadata  Metadata
	HeartRate []HeartRateSample
	Accel     []AccelSample
	Survey    []SurveyResponse
}

// Summary metadata keys written after parsing.
const (
	MetaSamplesHR       = "n_samples_hr"
	MetaSamplesAccel    = "n_samples_accel"
	MetaSurveyResponses = "n_survey_responses"
	MetaDurationHR      = "duration_hr"
	MetaDurationAccel   = "duration_accel"
)

// RecordingSummary is the list-level view of a recording exposed by the API.
type RecordingSummary struct {
	ID              string `json:"id"`
	StudyName       string `json:"studyName"`
	StudyInstance   string `json:"studyInstance"`
	ParsedOn        string `json:"parsedOn"`
	StartTime       string `json:"startTime,omitempty"`
	SamplesHR       int64  `json:"nSamplesHr"`
	SamplesAccel    int64  `json:"nSamplesAccel"`
	SurveyResponses int64  `json:"nSurveyResponses"`
	DurationHRMs    int64  `json:"durationHrMs"`
	DurationAccelMs int64  `json:"durationAccelMs"`
}

// Summarize builds the list-level view from a parsed recording.
func (r *Recording) Summarize() RecordingSummary {
	summary := RecordingSummary{
		ID:            r.ID,
		StudyName:     r.Metadata.String(MetaStudyName),
		StudyInstance: r.Metadata.String(MetaStudyInstance),
		ParsedOn:      r.Metadata.String(MetaParsedOn),
	}

	if start, ok := r.Metadata.StartTimestamp(time.UTC); ok {
		summary.StartTime = start.Format(time.RFC3339)
	}

	if n, ok := r.Metadata.Int(MetaSamplesHR); ok {
		summary.SamplesHR = n
	} else {
		summary.SamplesHR = int64(len(r.HeartRate))
	}
	if n, ok := r.Metadata.Int(MetaSamplesAccel); ok {
		summary.SamplesAccel = n
	} else {
		summary.SamplesAccel = int64(len(r.Accel))
	}
	if n, ok := r.Metadata.Int(MetaSurveyResponses); ok {
		summary.SurveyResponses = n
	} else {
		summary.SurveyResponses = int64(len(r.Survey))
	}
	if ms, ok := r.Metadata.Int(MetaDurationHR); ok {
		summary.DurationHRMs = ms
	} else {
		for _, s := range r.HeartRate {
			if ms := s.TimeElapsed.Milliseconds(); ms > summary.DurationHRMs {
				summary.DurationHRMs = ms
			}
		}
	}
	if ms, ok := r.Metadata.Int(MetaDurationAccel); ok {
		summary.DurationAccelMs = ms
	} else {
		for _, s := range r.Accel {
			if ms := s.TimeElapsed.Milliseconds(); ms > summary.DurationAccelMs {
				summary.DurationAccelMs = ms
			}
		}
	}

	return summary
}
