package primary

import (
	"context"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
)

// ReconciliationService defines the primary port for the per-SKU
// reconciliation pass. It runs strictly after both collectors complete.
type ReconciliationService interface {
	// Reconcile derives the output cells of every tracked SKU row from the
	// merged purchase/sale caches and the live stock balance. Rows are
	// mutated in place; a cell is only overwritten when the pass finds
	// evidence for it.
	Reconcile(ctx context.Context, req ReconcileRequest) (*ReconcileResponse, error)
}

// ReconcileRequest carries the inputs of a reconciliation pass.
type ReconcileRequest struct {
	Rows      []*models.SKURow
	Purchases map[int64]models.OrderRecord
	Sales     map[int64]models.OrderRecord
	// Checkpoint is the fallback window start for SKUs with no known last
	// purchase date.
	Checkpoint models.Day
}

// ReconcileResponse summarizes a reconciliation pass.
type ReconcileResponse struct {
	RowsTotal     int
	RowsPurchased int // rows that resolved a last purchase
	RowsSold      int // rows that resolved a last sale
}
