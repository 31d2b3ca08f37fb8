package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/syllabus-parser/internal/types"
)

// SaveResult stores the serialized parsing result for a run
func (db *DB) SaveResult(ctx context.Context, runID uuid.UUID, result *types.ParsingResult) error {
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO parse_results (run_id, content)
		 VALUES ($1, $2)
		 ON CONFLICT (run_id) DO UPDATE SET content = $2, created_at = NOW()`,
		runID, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// GetResult retrieves the parsing result for a run, or nil when absent
func (db *DB) GetResult(ctx context.Context, runID uuid.UUID) (*types.ParsingResult, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM parse_results WHERE run_id = $1`,
		runID,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result types.ParsingResult
	if err := json.Unmarshal(content, &result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &result, nil
}

// SaveTrainingSample stores a redacted training sample for a run
func (db *DB) SaveTrainingSample(ctx context.Context, runID uuid.UUID, sample *types.TrainingSample) error {
	jsonBytes, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to marshal training sample: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO training_samples (run_id, version, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id) DO UPDATE SET version = $2, content = $3, created_at = NOW()`,
		runID, sample.Version, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save training sample: %w", err)
	}
	return nil
}

// GetTrainingSample retrieves the training sample for a run, or nil when
// absent
func (db *DB) GetTrainingSample(ctx context.Context, runID uuid.UUID) (*types.TrainingSample, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM training_samples WHERE run_id = $1`,
		runID,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get training sample: %w", err)
	}

	var sample types.TrainingSample
	if err := json.Unmarshal(content, &sample); err != nil {
		return nil, fmt.Errorf("failed to decode training sample: %w", err)
	}
	return &sample, nil
}
