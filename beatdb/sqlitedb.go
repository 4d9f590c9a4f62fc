package beatdb

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"beatwatch.beatmonitor.org/internal/appconf"
	"beatwatch.beatmonitor.org/internal/logging"
)

// createDB opens a new SQLite database and creates the BEATwatch tables.
func createDB(config Config, logger *slog.Logger) (*sql.DB, error) {
	if config.Env == appconf.Test && config.DBPath != ":memory:" {
		return nil, errors.New("test environment must use an in-memory database")
	}

	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err = db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("error enabling foreign keys: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	if err := createTables(tx); err != nil {
		logging.SafeRollbackWithLogging(tx, logger, "create_tables")
		return nil, err
	}

	_, err = tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_hr_samples_recording ON hr_samples(recording_id, time_elapsed_ms);
		CREATE INDEX IF NOT EXISTS idx_accel_samples_recording ON accel_samples(recording_id, time_elapsed_ms);
		CREATE INDEX IF NOT EXISTS idx_survey_responses_recording ON survey_responses(recording_id, time_elapsed_ms);
	`)
	if err != nil {
		logging.SafeRollbackWithLogging(tx, logger, "create_indexes")
		return nil, fmt.Errorf("error creating indexes: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	return db, nil
}

func createTables(tx *sql.Tx) error {
	stmts := map[string]string{
		"recordings": `
			CREATE TABLE IF NOT EXISTS recordings (
				id TEXT PRIMARY KEY,
				study_name TEXT,
				study_instance TEXT,
				parsed_on TEXT,
				start_unix_ms INTEGER,
				n_samples_hr INTEGER NOT NULL DEFAULT 0,
				n_samples_accel INTEGER NOT NULL DEFAULT 0,
				n_survey_responses INTEGER NOT NULL DEFAULT 0,
				duration_hr_ms INTEGER NOT NULL DEFAULT 0,
				duration_accel_ms INTEGER NOT NULL DEFAULT 0,
				metadata_json TEXT NOT NULL DEFAULT '{}'
			);`,
		"hr_samples": `
			CREATE TABLE IF NOT EXISTS hr_samples (
				recording_id TEXT NOT NULL REFERENCES recordings(id) ON DELETE CASCADE,
				time_elapsed_ms INTEGER NOT NULL,
				time_absolute_ms INTEGER,
				heart_rate_bpm INTEGER NOT NULL,
				confidence INTEGER NOT NULL,
				ppg_raw INTEGER NOT NULL,
				ppg_filter INTEGER NOT NULL
			);`,
		"accel_samples": `
			CREATE TABLE IF NOT EXISTS accel_samples (
				recording_id TEXT NOT NULL REFERENCES recordings(id) ON DELETE CASCADE,
				time_elapsed_ms INTEGER NOT NULL,
				time_absolute_ms INTEGER,
				x INTEGER NOT NULL,
				y INTEGER NOT NULL,
				z INTEGER NOT NULL,
				magnitude INTEGER NOT NULL,
				difference INTEGER NOT NULL
			);`,
		"survey_responses": `
			CREATE TABLE IF NOT EXISTS survey_responses (
				recording_id TEXT NOT NULL REFERENCES recordings(id) ON DELETE CASCADE,
				number INTEGER NOT NULL,
				item INTEGER NOT NULL,
				question TEXT,
				input TEXT,
				range_json TEXT,
				response_json TEXT,
				time_absolute_ms INTEGER,
				time_elapsed_ms INTEGER NOT NULL
			);`,
	}

	for name, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("error creating table %s: %w", name, err)
		}
	}
	return nil
}
