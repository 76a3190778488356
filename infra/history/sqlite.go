package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/evbms/core/metrics"
)

// SQLiteStore persists served predictions in a SQLite database. It implements
// metrics.Sink so it composes with the other event sinks.
type SQLiteStore struct {
	db *sql.DB
}

// Record is one stored prediction.
type Record struct {
	ID          int64     `json:"id"`
	VehicleType string    `json:"vehicle_type"`
	EVModel     string    `json:"ev_model"`
	Predictor   string    `json:"predictor"`
	Fallback    bool      `json:"fallback"`
	ChartFile   string    `json:"chart_file"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        vehicle_type TEXT NOT NULL,
        ev_model TEXT NOT NULL,
        predictor TEXT NOT NULL,
        fallback INTEGER NOT NULL,
        chart_file TEXT NOT NULL,
        created_at INTEGER NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// RecordPrediction implements metrics.Sink.
func (s *SQLiteStore) RecordPrediction(ev metrics.PredictionEvent) error {
	created := ev.Time
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT INTO predictions (vehicle_type, ev_model, predictor, fallback, chart_file, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		ev.VehicleType, ev.EVModel, ev.Predictor, boolToInt(ev.Fallback), ev.ChartFile, created.UnixNano())
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// Recent returns up to n predictions, newest first.
func (s *SQLiteStore) Recent(n int) ([]Record, error) {
	rows, err := s.db.Query(`SELECT id, vehicle_type, ev_model, predictor, fallback, chart_file, created_at
        FROM predictions ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var r Record
		var fallback int
		var created int64
		if err := rows.Scan(&r.ID, &r.VehicleType, &r.EVModel, &r.Predictor, &fallback, &r.ChartFile, &created); err != nil {
			return nil, err
		}
		r.Fallback = fallback != 0
		r.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the total number of stored predictions.
func (s *SQLiteStore) Count() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM predictions`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
