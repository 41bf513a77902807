// Package primary defines the primary ports (driving interfaces) of the
// application: the collection, reconciliation and run services that the CLI
// commands invoke.
package primary

import (
	"context"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
)

// CollectionService defines the primary port for the paginated collectors and
// the live stock balance lookup.
type CollectionService interface {
	// Collect walks all listing pages of a kind from windowStart to today,
	// fetches detail for uncached identifiers, applies the kind's acceptance
	// predicate, merges accepted records into the cache and persists the
	// merged snapshot.
	Collect(ctx context.Context, req CollectRequest) (*CollectResponse, error)

	// StockBalance returns the live stock balance for a SKU. Transient
	// failures and missing data degrade to 0; the error is non-nil only
	// when the daily request quota is exceeded, which aborts the run.
	StockBalance(ctx context.Context, sku string) (float64, error)
}

// CollectRequest bounds one collector invocation.
type CollectRequest struct {
	Kind models.OrderKind
	// WindowStart is the inclusive lower bound of the listing window,
	// normally the stored checkpoint.
	WindowStart models.Day
}

// CollectResponse carries the merged cache and the invocation statistics.
type CollectResponse struct {
	Cache map[int64]models.OrderRecord
	Stats CollectStats
}

// CollectStats summarizes one collector invocation.
type CollectStats struct {
	Kind        models.OrderKind
	Pages       int
	Listed      int
	CacheHits   int
	Fetched     int
	Accepted    int
	CacheSize   int
	WindowStart models.Day
	WindowEnd   models.Day
}
