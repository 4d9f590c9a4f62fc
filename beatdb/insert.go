package beatdb

import (
	"context"
	"database/sql"
	"fmt"
)

// InsertHRSampleBatch adds heart rate samples to the database in one
// transaction.
func InsertHRSampleBatch(ctx context.Context, db *sql.DB, samples []HRSampleRow) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO hr_samples (
			recording_id, time_elapsed_ms, time_absolute_ms,
			heart_rate_bpm, confidence, ppg_raw, ppg_filter
		) VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		tx.Rollback() // nolint:errcheck
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, s := range samples {
		_, err := stmt.ExecContext(ctx,
			s.RecordingID, s.TimeElapsedMs, s.TimeAbsoluteMs,
			s.HeartRateBpm, s.Confidence, s.PPGRaw, s.PPGFilter,
		)
		if err != nil {
			tx.Rollback() // nolint:errcheck
			return fmt.Errorf("error inserting hr sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// InsertAccelSampleBatch adds acceleration samples to the database in one
// transaction.
func InsertAccelSampleBatch(ctx context.Context, db *sql.DB, samples []AccelSampleRow) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO accel_samples (
			recording_id, time_elapsed_ms, time_absolute_ms,
			x, y, z, magnitude, difference
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		tx.Rollback() // nolint:errcheck
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, s := range samples {
		_, err := stmt.ExecContext(ctx,
			s.RecordingID, s.TimeElapsedMs, s.TimeAbsoluteMs,
			s.X, s.Y, s.Z, s.Magnitude, s.Difference,
		)
		if err != nil {
			tx.Rollback() // nolint:errcheck
			return fmt.Errorf("error inserting accel sample: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// InsertSurveyResponseBatch adds survey responses to the database in one
// transaction.
func InsertSurveyResponseBatch(ctx context.Context, db *sql.DB, responses []SurveyResponseRow) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO survey_responses (
			recording_id, number, item, question, input,
			range_json, response_json, time_absolute_ms, time_elapsed_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		tx.Rollback() // nolint:errcheck
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, s := range responses {
		_, err := stmt.ExecContext(ctx,
			s.RecordingID, s.Number, s.Item, s.Question, s.Input,
			s.RangeJSON, s.ResponseJSON, s.TimeAbsoluteMs, s.TimeElapsedMs,
		)
		if err != nil {
			tx.Rollback() // nolint:errcheck
			return fmt.Errorf("error inserting survey response: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// upsertRecording writes the recording header row, replacing any previous
// version of the same recording.
func upsertRecording(ctx context.Context, db *sql.DB, row RecordingRow) error {
	_, err := db.ExecContext(ctx, `
		INSERT OR REPLACE INTO recordings (
			id, study_name, study_instance, parsed_on, start_unix_ms,
			n_samples_hr, n_samples_accel, n_survey_responses,
			duration_hr_ms, duration_accel_ms, metadata_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		row.ID, row.StudyName, row.StudyInstance, row.ParsedOn, row.StartUnixMs,
		row.NSamplesHR, row.NSamplesAccel, row.NSurveyResponses,
		row.DurationHRMs, row.DurationAccelMs, row.MetadataJSON,
	)
	if err != nil {
		return fmt.Errorf("error upserting recording %s: %w", row.ID, err)
	}
	return nil
}
