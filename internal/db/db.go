// Package db provides optional PostgreSQL persistence for pipeline runs.
// The pipeline degrades gracefully when no database is configured or
// reachable: persistence failures are warnings, never run failures.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asapstudio/video-workflow/internal/types"
)

// Artifact step names for known artifact types
const (
	StepScenePrompts = "scene_prompts"
	StepSceneClip    = "scene_clip"
	StepMergedVideo  = "merged_video"
	StepRunReport    = "run_report"
)

// Artifact categories, matching the pipeline stages
const (
	CategoryPrompting   = "prompt_generation"
	CategoryGeneration  = "asset_generation"
	CategoryComposition = "composition"
	CategoryReporting   = "reporting"
)

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

// CreateRun creates a new workflow run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, runDirID, businessInput string, sceneCount int, budget float64) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO workflow_runs (run_dir, business_input, scene_count, budget, status)
		 VALUES ($1, $2, $3, $4, 'running')
		 RETURNING id`,
		runDirID, businessInput, sceneCount, budget,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a workflow run terminal with its final status and spend
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status types.RunStatus, totalCost float64) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE workflow_runs SET status = $1, total_cost = $2, completed_at = NOW() WHERE id = $3`,
		string(status), totalCost, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveArtifact stores a JSON artifact for a workflow run
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, category, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, content = $4, created_at = NOW()`,
		runID, step, category, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// SaveSceneArtifact stores the local path of one scene's clip, keyed by the
// scene index so retried scenes overwrite their previous record.
func (db *DB) SaveSceneArtifact(ctx context.Context, runID uuid.UUID, scene int, localPath string) error {
	step := fmt.Sprintf("%s_%d", StepSceneClip, scene)
	_, err := db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, category, text_content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, text_content = $4, created_at = NOW()`,
		runID, step, CategoryGeneration, localPath,
	)
	if err != nil {
		return fmt.Errorf("failed to save scene artifact %d: %w", scene, err)
	}
	return nil
}

// SaveSpendingEntry appends one ledger charge to the spending log. Entries
// are append-only; charges are never deleted or updated.
func (db *DB) SaveSpendingEntry(ctx context.Context, runID uuid.UUID, entry types.CostEntry) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO spending_log (run_id, scene, amount, note, charged_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		runID, entry.Scene, entry.Amount, entry.Note, entry.At,
	)
	if err != nil {
		return fmt.Errorf("failed to save spending entry: %w", err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by run ID and step
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// GetReportByRunID loads the final run report from the database, or nil if
// the run never reached reporting.
func (db *DB) GetReportByRunID(ctx context.Context, runID uuid.UUID) (*types.RunReport, error) {
	content, err := db.GetArtifact(ctx, runID, StepRunReport)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var report types.RunReport
	if err := json.Unmarshal(content, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run report: %w", err)
	}
	return &report, nil
}
