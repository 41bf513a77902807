// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the collection and
// reconciliation services drive external systems: the remote order API, the
// record cache and checkpoint stores, the tracked-SKU spreadsheet, the secret
// store and the checkpoint blob mirror.
package secondary

import (
	"context"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
)

// RecordCacheRepository defines the secondary port for record cache
// persistence. A cache is the whole identifier→record snapshot for one order
// kind; it is loaded once at run start and saved once per collector, never
// written incrementally.
type RecordCacheRepository interface {
	// Load returns the cached records for a kind. A missing or corrupt
	// snapshot yields an empty cache, never an error.
	Load(ctx context.Context, kind models.OrderKind) (map[int64]models.OrderRecord, error)

	// Save overwrites the snapshot for a kind with the given cache.
	Save(ctx context.Context, kind models.OrderKind, cache map[int64]models.OrderRecord) error

	// Count returns the number of cached records for a kind.
	Count(ctx context.Context, kind models.OrderKind) (int, error)

	// Clear removes the snapshot for a kind.
	Clear(ctx context.Context, kind models.OrderKind) error
}

// CheckpointRepository defines the secondary port for the last-run
// checkpoint.
type CheckpointRepository interface {
	// Load returns the stored checkpoint. A missing or corrupt checkpoint
	// yields the epoch default and recreates the stored form.
	Load(ctx context.Context) (models.Checkpoint, error)

	// Save persists the checkpoint. Called only after a fully successful
	// reconciliation cycle.
	Save(ctx context.Context, cp models.Checkpoint) error
}
