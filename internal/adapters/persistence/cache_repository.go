// Package persistence contains the JSON snapshot implementations of the
// repository interfaces: one cache file per record kind plus the metadata
// checkpoint file with its remote blob mirror.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

// JSONCacheRepository implements secondary.RecordCacheRepository with one
// JSON object file per record kind, mapping stringified identifier to the
// full record payload. Snapshots are whole-file overwrites; the cache grows
// monotonically and is never evicted.
type JSONCacheRepository struct {
	dir    string
	logger *log.Logger
}

// NewJSONCacheRepository creates a cache repository rooted at dir.
func NewJSONCacheRepository(dir string, logger *log.Logger) *JSONCacheRepository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &JSONCacheRepository{dir: dir, logger: logger}
}

// Load reads the snapshot for a kind. A missing file is created empty; a
// corrupt file falls back to an empty cache. Neither is an error: partial
// progress must never be fatal.
func (r *JSONCacheRepository) Load(_ context.Context, kind models.OrderKind) (map[int64]models.OrderRecord, error) {
	path := r.path(kind)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := r.ensureDir(); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
			return nil, fmt.Errorf("failed to create %s cache file: %w", kind, err)
		}
		return map[int64]models.OrderRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s cache file: %w", kind, err)
	}

	var raw map[string]models.OrderRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		r.logger.Printf("WARN %s cache file is corrupt, starting empty: %v", kind, err)
		return map[int64]models.OrderRecord{}, nil
	}

	cache := make(map[int64]models.OrderRecord, len(raw))
	for key, rec := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			r.logger.Printf("WARN %s cache key %q is not an id, dropping entry", kind, key)
			continue
		}
		cache[id] = rec
	}
	return cache, nil
}

// Save overwrites the snapshot for a kind with the full cache.
func (r *JSONCacheRepository) Save(_ context.Context, kind models.OrderKind, cache map[int64]models.OrderRecord) error {
	raw := make(map[string]models.OrderRecord, len(cache))
	for id, rec := range cache {
		raw[strconv.FormatInt(id, 10)] = rec
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s cache: %w", kind, err)
	}
	if err := r.ensureDir(); err != nil {
		return err
	}
	if err := os.WriteFile(r.path(kind), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s cache file: %w", kind, err)
	}
	return nil
}

// Count returns the number of cached records for a kind.
func (r *JSONCacheRepository) Count(ctx context.Context, kind models.OrderKind) (int, error) {
	cache, err := r.Load(ctx, kind)
	if err != nil {
		return 0, err
	}
	return len(cache), nil
}

// Clear removes the snapshot for a kind.
func (r *JSONCacheRepository) Clear(_ context.Context, kind models.OrderKind) error {
	err := os.Remove(r.path(kind))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear %s cache: %w", kind, err)
	}
	return nil
}

func (r *JSONCacheRepository) path(kind models.OrderKind) string {
	if kind == models.KindPurchase {
		return filepath.Join(r.dir, "compras_cache.json")
	}
	return filepath.Join(r.dir, "vendas_cache.json")
}

func (r *JSONCacheRepository) ensureDir() error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	return nil
}

// Ensure JSONCacheRepository implements the interface.
var _ secondary.RecordCacheRepository = (*JSONCacheRepository)(nil)
