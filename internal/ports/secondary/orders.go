package secondary

import (
	"context"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
)

// OrderListing is one entry of a paginated listing page. Listing entries only
// carry the identifier; everything else comes from the detail endpoint.
type OrderListing struct {
	ID int64
}

// ListQuery bounds a listing page request.
type ListQuery struct {
	Page  int
	Limit int
	// Start and End are the inclusive date window of the listing.
	Start models.Day
	End   models.Day
}

// OrderAPI defines the secondary port for the remote order API: the paginated
// listing endpoints, the per-record detail endpoints and the stock balance
// endpoint. Implementations perform plain requests; rate governance and
// retries live in the application layer.
type OrderAPI interface {
	// ListOrders returns one listing page for a kind. An empty slice means
	// the listing is exhausted.
	ListOrders(ctx context.Context, kind models.OrderKind, q ListQuery) ([]OrderListing, error)

	// GetOrder fetches the full detail record for an identifier.
	GetOrder(ctx context.Context, kind models.OrderKind, id int64) (*models.OrderRecord, error)

	// StockBalance returns the current physical stock balance for a SKU in
	// the configured deposit.
	StockBalance(ctx context.Context, sku string) (float64, error)
}
