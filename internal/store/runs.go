// Package store keeps a local ledger of conversion runs so past
// outputs stay discoverable from the CLI.
package store

import (
	"database/sql"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"
)

type RunStore struct {
	DB *sql.DB
}

// Run is one recorded conversion.
type Run struct {
	ID        string
	Source    string
	Output    string
	Feature   string
	Scenario  string
	Steps     int
	Inputs    int
	Summary   string
	CreatedAt string
}

func NewRunStore(dbPath string) (*RunStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	query := `CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT,
		output TEXT,
		feature TEXT,
		scenario TEXT,
		steps INTEGER,
		inputs INTEGER,
		summary TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, err
	}

	return &RunStore{DB: db}, nil
}

// RecordRun inserts a run and returns its generated id.
func (s *RunStore) RecordRun(r Run) (string, error) {
	id := uuid.NewString()
	query := `INSERT INTO runs (id, source, output, feature, scenario, steps, inputs, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.DB.Exec(query, id, r.Source, r.Output, r.Feature, r.Scenario, r.Steps, r.Inputs, r.Summary)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(limit int) ([]Run, error) {
	query := `SELECT id, source, output, feature, scenario, steps, inputs, summary, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`
	rows, err := s.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.Output, &r.Feature, &r.Scenario, &r.Steps, &r.Inputs, &r.Summary, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *RunStore) Close() error {
	return s.DB.Close()
}
