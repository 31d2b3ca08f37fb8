// Package db provides PostgreSQL persistence for parse runs and their
// artifacts.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ParseRun represents one pipeline invocation.
type ParseRun struct {
	ID          uuid.UUID  `json:"id"`
	Source      string     `json:"source"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	Confidence  *float64   `json:"confidence,omitempty"`
	Provider    *string    `json:"provider,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateRun creates a new parse run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, source, format string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO parse_runs (source, format, status)
		 VALUES ($1, $2, 'running')
		 RETURNING id`,
		source, format,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a parse run as finished, recording the final confidence
// and the model that produced the record
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, confidence float64, provider string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE parse_runs
		 SET status = $1, confidence = $2, provider = $3, completed_at = NOW()
		 WHERE id = $4`,
		status, confidence, provider, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a parse run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*ParseRun, error) {
	var run ParseRun
	err := db.pool.QueryRow(ctx,
		`SELECT id, source, format, status, confidence, provider, created_at, completed_at
		 FROM parse_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Source, &run.Format, &run.Status, &run.Confidence,
		&run.Provider, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent parse runs
func (db *DB) ListRuns(ctx context.Context, limit int) ([]ParseRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, source, format, status, confidence, provider, created_at, completed_at
		 FROM parse_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []ParseRun
	for rows.Next() {
		var run ParseRun
		if err := rows.Scan(&run.ID, &run.Source, &run.Format, &run.Status,
			&run.Confidence, &run.Provider, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
