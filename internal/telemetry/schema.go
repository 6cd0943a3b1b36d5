package telemetry

import (
	"database/sql"

	"codeberg.org/mutker/scopectl/internal/errors"
)

// initSchema initializes the database schema for acquisition telemetry.
// Cycles land at sub-second cadence, so rows aggregate per wall-clock
// second (see the upsert in Store).
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS acquisition (
            timestamp INTEGER PRIMARY KEY,
            samples_ingested INTEGER,
            decode_errors INTEGER,
            dominant_hz REAL,
            paused INTEGER
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrSchemaInit, err)
	}

	return nil
}
