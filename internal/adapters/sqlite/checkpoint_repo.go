package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

// CheckpointRepository implements secondary.CheckpointRepository with SQLite.
// The checkpoint is a single fixed row; a missing or unparsable row resets to
// the epoch default, matching the file-backed behavior.
type CheckpointRepository struct {
	db *sql.DB
}

// NewCheckpointRepository creates a new SQLite checkpoint repository.
func NewCheckpointRepository(db *sql.DB) *CheckpointRepository {
	return &CheckpointRepository{db: db}
}

// Load returns the stored checkpoint, creating the epoch default on first
// use.
func (r *CheckpointRepository) Load(ctx context.Context) (models.Checkpoint, error) {
	var lastRun string
	err := r.db.QueryRowContext(ctx,
		"SELECT last_run FROM checkpoint WHERE id = 1",
	).Scan(&lastRun)
	if err == sql.ErrNoRows {
		return r.reset(ctx)
	}
	if err != nil {
		return models.Checkpoint{}, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	day, perr := models.ParseDay(lastRun)
	if perr != nil || day.IsZero() {
		return r.reset(ctx)
	}
	return models.Checkpoint{LastRun: day}, nil
}

// Save upserts the checkpoint row.
func (r *CheckpointRepository) Save(ctx context.Context, cp models.Checkpoint) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO checkpoint (id, last_run, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET last_run = excluded.last_run, updated_at = CURRENT_TIMESTAMP`,
		cp.LastRun.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

func (r *CheckpointRepository) reset(ctx context.Context) (models.Checkpoint, error) {
	cp := models.DefaultCheckpoint()
	if err := r.Save(ctx, cp); err != nil {
		return models.Checkpoint{}, err
	}
	return cp, nil
}

// Ensure CheckpointRepository implements the interface.
var _ secondary.CheckpointRepository = (*CheckpointRepository)(nil)
