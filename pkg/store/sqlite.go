package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"sqlfleet/pkg/model"
)

// SQLiteStore persists runs to a local file so the daemon survives restarts.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite mkdir: %w", err)
	}
	dsn := "file:" + path + "?_pragma=busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS runs(
		id TEXT PRIMARY KEY, started INTEGER, payload TEXT)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveRun(run model.AssessmentRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO runs(id, started, payload) VALUES(?, ?, ?)`,
		run.ID, run.StartedAt.Unix(), string(payload))
	return err
}

func (s *SQLiteStore) LatestRun() (model.AssessmentRun, bool, error) {
	row := s.db.QueryRow(`SELECT payload FROM runs ORDER BY started DESC LIMIT 1`)
	return scanRun(row)
}

func (s *SQLiteStore) GetRun(id string) (model.AssessmentRun, bool, error) {
	row := s.db.QueryRow(`SELECT payload FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(limit int) ([]model.AssessmentRun, error) {
	if limit <= 0 {
		limit = memoryRetention
	}
	rows, err := s.db.Query(`SELECT payload FROM runs ORDER BY started DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AssessmentRun
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var run model.AssessmentRun
		if err := json.Unmarshal([]byte(payload), &run); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func scanRun(row *sql.Row) (model.AssessmentRun, bool, error) {
	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return model.AssessmentRun{}, false, nil
		}
		return model.AssessmentRun{}, false, err
	}
	var run model.AssessmentRun
	if err := json.Unmarshal([]byte(payload), &run); err != nil {
		return model.AssessmentRun{}, false, err
	}
	return run, true, nil
}
