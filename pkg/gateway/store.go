package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("gateway: parse timestamp %q: %w", s, err)
	}
	return t, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id          TEXT PRIMARY KEY,
	received_at TEXT NOT NULL,
	status      TEXT NOT NULL,
	spo2        INTEGER NOT NULL,
	heart_rate  INTEGER NOT NULL,
	systolic    INTEGER NOT NULL,
	diastolic   INTEGER NOT NULL,
	temperature REAL NOT NULL,
	fall        INTEGER NOT NULL,
	no_movement INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_received ON reports(received_at);
`

// Store persists reports in SQLite.
type Store struct {
	db *sql.DB
}

var _ Sink = (*Store)(nil)

// OpenStore opens (or creates) the report database at path with WAL
// journal mode and a 5-second busy timeout.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("gateway: open sqlite %s: %w", path, err)
	}

	ctx := context.Background()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("gateway: ping sqlite %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("gateway: set WAL mode on %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("gateway: set busy_timeout on %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("gateway: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Ingest persists one record.
func (s *Store) Ingest(r Record) error {
	_, err := s.db.Exec(
		`INSERT INTO reports
		 (id, received_at, status, spo2, heart_rate, systolic, diastolic, temperature, fall, no_movement)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ReceivedAt.Format(timeLayout), r.Status,
		r.SpO2, r.HeartRate, r.Systolic, r.Diastolic, r.Temperature,
		r.Fall, r.NoMovement,
	)
	if err != nil {
		return fmt.Errorf("gateway: insert report %s: %w", r.ID, err)
	}
	return nil
}

// Recent returns the most recent n records, newest first.
func (s *Store) Recent(n int) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT id, received_at, status, spo2, heart_rate, systolic, diastolic, temperature, fall, no_movement
		 FROM reports ORDER BY received_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("gateway: query reports: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var at string
		if err := rows.Scan(&r.ID, &at, &r.Status, &r.SpO2, &r.HeartRate,
			&r.Systolic, &r.Diastolic, &r.Temperature, &r.Fall, &r.NoMovement); err != nil {
			return nil, fmt.Errorf("gateway: scan report: %w", err)
		}
		if r.ReceivedAt, err = parseTime(at); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
