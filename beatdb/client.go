package beatdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"beatwatch.beatmonitor.org/internal/models"
)

// Client is the main entry point for BEATwatch storage
type Client struct {
	config  Config
	logger  *slog.Logger
	DB      *sql.DB
	Queries *Queries
}

// NewClient creates a new Client with the provided configuration
func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := createDB(config, logger)
	if err != nil {
		return nil, fmt.Errorf("unable to create database: %w", err)
	}
	if config.verbose {
		logger.Info("successfully created tables", slog.String("db", config.DBPath))
	}

	return &Client{
		config:  config,
		logger:  logger,
		DB:      db,
		Queries: New(db),
	}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

// StoreRecording persists a parsed recording, replacing any previously
// stored version of the same recording.
func (c *Client) StoreRecording(ctx context.Context, rec *models.Recording) error {
	row, err := recordingRow(rec)
	if err != nil {
		return err
	}

	if err := upsertRecording(ctx, c.DB, row); err != nil {
		return err
	}

	// The upsert cascades deletes of old sample rows via the foreign keys,
	// but only when the header row was replaced. Clear explicitly so
	// re-ingesting an unchanged header stays idempotent.
	for _, table := range []string{"hr_samples", "accel_samples", "survey_responses"} {
		if _, err := c.DB.ExecContext(ctx, "DELETE FROM "+table+" WHERE recording_id = ?;", rec.ID); err != nil {
			return fmt.Errorf("error clearing %s for %s: %w", table, rec.ID, err)
		}
	}

	if err := InsertHRSampleBatch(ctx, c.DB, hrRows(rec)); err != nil {
		return err
	}
	if err := InsertAccelSampleBatch(ctx, c.DB, accelRows(rec)); err != nil {
		return err
	}
	if err := InsertSurveyResponseBatch(ctx, c.DB, surveyRows(rec)); err != nil {
		return err
	}

	return nil
}

func recordingRow(rec *models.Recording) (RecordingRow, error) {
	metaJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return RecordingRow{}, fmt.Errorf("error encoding metadata for %s: %w", rec.ID, err)
	}

	summary := rec.Summarize()
	row := RecordingRow{
		ID:               rec.ID,
		StudyName:        sql.NullString{String: summary.StudyName, Valid: summary.StudyName != ""},
		StudyInstance:    sql.NullString{String: summary.StudyInstance, Valid: summary.StudyInstance != ""},
		ParsedOn:         sql.NullString{String: summary.ParsedOn, Valid: summary.ParsedOn != ""},
		NSamplesHR:       summary.SamplesHR,
		NSamplesAccel:    summary.SamplesAccel,
		NSurveyResponses: summary.SurveyResponses,
		DurationHRMs:     summary.DurationHRMs,
		DurationAccelMs:  summary.DurationAccelMs,
		MetadataJSON:     string(metaJSON),
	}

	if start, ok := rec.Metadata.StartTimestamp(time.UTC); ok {
		row.StartUnixMs = sql.NullInt64{Int64: start.UnixMilli(), Valid: true}
	}

	return row, nil
}

func hrRows(rec *models.Recording) []HRSampleRow {
	rows := make([]HRSampleRow, 0, len(rec.HeartRate))
	for _, s := range rec.HeartRate {
		row := HRSampleRow{
			RecordingID:   rec.ID,
			TimeElapsedMs: s.TimeElapsed.Milliseconds(),
			HeartRateBpm:  int64(s.BPM),
			Confidence:    int64(s.Confidence),
			PPGRaw:        int64(s.PPGRaw),
			PPGFilter:     int64(s.PPGFilter),
		}
		if !s.TimeAbsolute.IsZero() {
			row.TimeAbsoluteMs = sql.NullInt64{Int64: s.TimeAbsolute.UnixMilli(), Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}

func accelRows(rec *models.Recording) []AccelSampleRow {
	rows := make([]AccelSampleRow, 0, len(rec.Accel))
	for _, s := range rec.Accel {
		row := AccelSampleRow{
			RecordingID:   rec.ID,
			TimeElapsedMs: s.TimeElapsed.Milliseconds(),
			X:             int64(s.X),
			Y:             int64(s.Y),
			Z:             int64(s.Z),
			Magnitude:     int64(s.Magnitude),
			Difference:    int64(s.Difference),
		}
		if !s.TimeAbsolute.IsZero() {
			row.TimeAbsoluteMs = sql.NullInt64{Int64: s.TimeAbsolute.UnixMilli(), Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}

func surveyRows(rec *models.Recording) []SurveyResponseRow {
	rows := make([]SurveyResponseRow, 0, len(rec.Survey))
	for _, s := range rec.Survey {
		row := SurveyResponseRow{
			RecordingID:   rec.ID,
			Number:        s.Number,
			Item:          s.Item,
			Question:      sql.NullString{String: s.Question, Valid: s.Question != ""},
			Input:         sql.NullString{String: s.Input, Valid: s.Input != ""},
			TimeElapsedMs: s.TimeElapsed.Milliseconds(),
		}
		if !s.TimeAbsolute.IsZero() {
			row.TimeAbsoluteMs = sql.NullInt64{Int64: s.TimeAbsolute.UnixMilli(), Valid: true}
		}
		if s.Range != nil {
			if b, err := json.Marshal(s.Range); err == nil {
				row.RangeJSON = sql.NullString{String: string(b), Valid: true}
			}
		}
		if s.Response != nil {
			if b, err := json.Marshal(s.Response); err == nil {
				row.ResponseJSON = sql.NullString{String: string(b), Valid: true}
			}
		}
		rows = append(rows, row)
	}
	return rows
}
