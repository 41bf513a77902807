// Package sqlite contains SQLite implementations of the repository
// interfaces, the embedded-database alternative to the JSON snapshot files.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

// RecordCacheRepository implements secondary.RecordCacheRepository with
// SQLite. Records are stored one row per identifier with the normalized
// record as a JSON payload; Save replaces the kind's rows in one transaction
// to keep whole-snapshot overwrite semantics.
type RecordCacheRepository struct {
	db *sql.DB
}

// NewRecordCacheRepository creates a new SQLite record cache repository.
func NewRecordCacheRepository(db *sql.DB) *RecordCacheRepository {
	return &RecordCacheRepository{db: db}
}

// Load returns all cached records for a kind. Rows whose payload no longer
// decodes are dropped rather than failing the run.
func (r *RecordCacheRepository) Load(ctx context.Context, kind models.OrderKind) (map[int64]models.OrderRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, payload FROM order_records WHERE kind = ?", string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s cache: %w", kind, err)
	}
	defer rows.Close()

	cache := make(map[int64]models.OrderRecord)
	for rows.Next() {
		var (
			id      int64
			payload string
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", kind, err)
		}
		var rec models.OrderRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			continue
		}
		cache[id] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s cache: %w", kind, err)
	}
	return cache, nil
}

// Save overwrites the kind's rows with the given cache in one transaction.
func (r *RecordCacheRepository) Save(ctx context.Context, kind models.OrderKind, cache map[int64]models.OrderRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM order_records WHERE kind = ?", string(kind),
	); err != nil {
		return fmt.Errorf("failed to clear %s cache: %w", kind, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO order_records (kind, id, payload) VALUES (?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for id, rec := range cache {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %d: %w", kind, id, err)
		}
		if _, err := stmt.ExecContext(ctx, string(kind), id, string(payload)); err != nil {
			return fmt.Errorf("failed to insert %s %d: %w", kind, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s cache: %w", kind, err)
	}
	return nil
}

// Count returns the number of cached records for a kind.
func (r *RecordCacheRepository) Count(ctx context.Context, kind models.OrderKind) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM order_records WHERE kind = ?", string(kind),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s cache: %w", kind, err)
	}
	return n, nil
}

// Clear removes all cached records for a kind.
func (r *RecordCacheRepository) Clear(ctx context.Context, kind models.OrderKind) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM order_records WHERE kind = ?", string(kind),
	); err != nil {
		return fmt.Errorf("failed to clear %s cache: %w", kind, err)
	}
	return nil
}

// Ensure RecordCacheRepository implements the interface.
var _ secondary.RecordCacheRepository = (*RecordCacheRepository)(nil)
