package beatdb

import (
	"context"
	"database/sql"
)

// Queries wraps the read side of the database.
type Queries struct {
	db *sql.DB
}

// New creates Queries over the given database handle.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// GetRecording returns the stored header row for a recording.
func (q *Queries) GetRecording(ctx context.Context, id string) (RecordingRow, error) {
	var row RecordingRow
	err := q.db.QueryRowContext(ctx, `
		SELECT id, study_name, study_instance, parsed_on, start_unix_ms,
			n_samples_hr, n_samples_accel, n_survey_responses,
			duration_hr_ms, duration_accel_ms, metadata_json
		FROM recordings WHERE id = ?;
	`, id).Scan(
		&row.ID, &row.StudyName, &row.StudyInstance, &row.ParsedOn, &row.StartUnixMs,
		&row.NSamplesHR, &row.NSamplesAccel, &row.NSurveyResponses,
		&row.DurationHRMs, &row.DurationAccelMs, &row.MetadataJSON,
	)
	return row, err
}

// ListRecordings returns every stored recording header, newest start first.
func (q *Queries) ListRecordings(ctx context.Context) ([]RecordingRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, study_name, study_instance, parsed_on, start_unix_ms,
			n_samples_hr, n_samples_accel, n_survey_responses,
			duration_hr_ms, duration_accel_ms, metadata_json
		FROM recordings ORDER BY start_unix_ms DESC, id;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var out []RecordingRow
	for rows.Next() {
		var row RecordingRow
		if err := rows.Scan(
			&row.ID, &row.StudyName, &row.StudyInstance, &row.ParsedOn, &row.StartUnixMs,
			&row.NSamplesHR, &row.NSamplesAccel, &row.NSurveyResponses,
			&row.DurationHRMs, &row.DurationAccelMs, &row.MetadataJSON,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SampleRangeParams bound a per-recording sample query by elapsed time.
// FromMs/ToMs of -1 leave that side unbounded.
type SampleRangeParams struct {
	RecordingID string
	FromMs      int64
	ToMs        int64
}

// GetHRSamples returns heart rate samples for a recording ordered by
// elapsed time, optionally bounded.
func (q *Queries) GetHRSamples(ctx context.Context, params SampleRangeParams) ([]HRSampleRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT recording_id, time_elapsed_ms, time_absolute_ms,
			heart_rate_bpm, confidence, ppg_raw, ppg_filter
		FROM hr_samples
		WHERE recording_id = ?
			AND (? < 0 OR time_elapsed_ms >= ?)
			AND (? < 0 OR time_elapsed_ms <= ?)
		ORDER BY time_elapsed_ms;
	`, params.RecordingID, params.FromMs, params.FromMs, params.ToMs, params.ToMs)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var out []HRSampleRow
	for rows.Next() {
		var row HRSampleRow
		if err := rows.Scan(
			&row.RecordingID, &row.TimeElapsedMs, &row.TimeAbsoluteMs,
			&row.HeartRateBpm, &row.Confidence, &row.PPGRaw, &row.PPGFilter,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetAccelSamples returns acceleration samples for a recording ordered by
// elapsed time, optionally bounded.
func (q *Queries) GetAccelSamples(ctx context.Context, params SampleRangeParams) ([]AccelSampleRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT recording_id, time_elapsed_ms, time_absolute_ms,
			x, y, z, magnitude, difference
		FROM accel_samples
		WHERE recording_id = ?
			AND (? < 0 OR time_elapsed_ms >= ?)
			AND (? < 0 OR time_elapsed_ms <= ?)
		ORDER BY time_elapsed_ms;
	`, params.RecordingID, params.FromMs, params.FromMs, params.ToMs, params.ToMs)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var out []AccelSampleRow
	for rows.Next() {
		var row AccelSampleRow
		if err := rows.Scan(
			&row.RecordingID, &row.TimeElapsedMs, &row.TimeAbsoluteMs,
			&row.X, &row.Y, &row.Z, &row.Magnitude, &row.Difference,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetSurveyResponses returns survey responses for a recording ordered by
// elapsed time.
func (q *Queries) GetSurveyResponses(ctx context.Context, recordingID string) ([]SurveyResponseRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT recording_id, number, item, question, input,
			range_json, response_json, time_absolute_ms, time_elapsed_ms
		FROM survey_responses
		WHERE recording_id = ?
		ORDER BY time_elapsed_ms, number;
	`, recordingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var out []SurveyResponseRow
	for rows.Next() {
		var row SurveyResponseRow
		if err := rows.Scan(
			&row.RecordingID, &row.Number, &row.Item, &row.Question, &row.Input,
			&row.RangeJSON, &row.ResponseJSON, &row.TimeAbsoluteMs, &row.TimeElapsedMs,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountRecordings returns the number of stored recordings.
func (q *Queries) CountRecordings(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recordings;`).Scan(&n)
	return n, err
}
