package beatdb

import "database/sql"

// RecordingRow is a stored recording with its summary values.
type RecordingRow struct {
	ID               string
	StudyName        sql.NullString
	StudyInstance    sql.NullString
	ParsedOn         sql.NullString
	StartUnixMs      sql.NullInt64
	NSamplesHR       int64
	NSamplesAccel    int64
	NSurveyResponses int64
	DurationHRMs     int64
	DurationAccelMs  int64
	MetadataJSON     string
}

// HRSampleRow is one stored heart rate sample.
type HRSampleRow struct {
	RecordingID    string
	TimeElapsedMs  int64
	TimeAbsoluteMs sql.NullInt64
	HeartRateBpm   int64
	Confidence     int64
	PPGRaw         int64
	PPGFilter      int64
}

// AccelSampleRow is one stored acceleration sample.
type AccelSampleRow struct {
	RecordingID    string
	TimeElapsedMs  int64
	TimeAbsoluteMs sql.NullInt64
	X              int64
	Y              int64
	Z              int64
	Magnitude      int64
	Difference     int64
}

// SurveyResponseRow is one stored survey response.
type SurveyResponseRow struct {
	RecordingID    string
	Number         int64
	Item           int64
	Question       sql.NullString
	Input          sql.NullString
	RangeJSON      sql.NullString
	ResponseJSON   sql.NullString
	TimeAbsoluteMs sql.NullInt64
	TimeElapsedMs  int64
}
