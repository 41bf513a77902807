package app

import (
	"context"
	"io"
	"log"
	"strconv"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/primary"
)

// ReconciliationServiceImpl implements the ReconciliationService interface:
// the per-SKU pass that derives output cells from the merged caches and the
// live stock balance.
type ReconciliationServiceImpl struct {
	collection primary.CollectionService
	logger     *log.Logger
}

// NewReconciliationService creates a ReconciliationService with injected
// dependencies. The collection service is only used for live balance lookups.
func NewReconciliationService(collection primary.CollectionService, logger *log.Logger) *ReconciliationServiceImpl {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ReconciliationServiceImpl{
		collection: collection,
		logger:     logger,
	}
}

// Reconcile processes tracked SKU rows in row order. Each step only
// overwrites a cell when it found evidence for it; absence of a match leaves
// the prior cell exactly as read from the sheet.
func (s *ReconciliationServiceImpl) Reconcile(ctx context.Context, req primary.ReconcileRequest) (*primary.ReconcileResponse, error) {
	resp := &primary.ReconcileResponse{RowsTotal: len(req.Rows)}

	for _, row := range req.Rows {
		sku := row.SKU()
		if sku == "" {
			continue
		}

		// Step 1: last purchase = cached purchase with the max issue
		// date among records referencing this SKU.
		if last, ok := latestPurchase(req.Purchases, sku); ok {
			row.Set(models.ColLastPurchaseDate, last.IssueDate.String())
			if due := last.LastDueDate(); !due.IsZero() {
				row.Set(models.ColLastPurchaseDue, due.String())
			}
			if item, ok := last.ItemFor(sku); ok {
				row.Set(models.ColLastPurchaseQty, formatQuantity(item.Quantity))
			}
			resp.RowsPurchased++
		}

		// Step 2: the sales window starts at the row's (possibly just
		// updated) last purchase date, falling back to the checkpoint.
		since := req.Checkpoint
		if cell := row.Get(models.ColLastPurchaseDate); cell != "" {
			if d, err := models.ParseDay(cell); err == nil && !d.IsZero() {
				since = d
			}
		}

		// Step 3: sales for this SKU with effective date >= window
		// start. The latest one supplies the last-sale date; the whole
		// filtered set sums into quantity sold.
		lastSale, sold, matched := salesSince(req.Sales, sku, since)
		if matched {
			if !lastSale.ExitDate.IsZero() {
				row.Set(models.ColLastSaleDate, lastSale.ExitDate.String())
			}
			row.Set(models.ColQtySold, formatQuantity(sold))
			resp.RowsSold++
		}

		// Step 4: stock balance is always refreshed live.
		balance, err := s.collection.StockBalance(ctx, sku)
		if err != nil {
			return nil, err
		}
		row.Set(models.ColStockBalance, formatQuantity(balance))
	}

	s.logger.Printf("reconciled %d rows (%d with purchases, %d with sales)",
		resp.RowsTotal, resp.RowsPurchased, resp.RowsSold)
	return resp, nil
}

// latestPurchase scans the purchase cache for the record with the maximum
// issue date among those referencing the SKU. Ties break arbitrarily; issue
// dates are unique per business record.
func latestPurchase(purchases map[int64]models.OrderRecord, sku string) (models.OrderRecord, bool) {
	var best models.OrderRecord
	found := false
	for _, rec := range purchases {
		if !rec.HasSKU(sku) {
			continue
		}
		if !found || rec.IssueDate.After(best.IssueDate) {
			best = rec
			found = true
		}
	}
	return best, found
}

// salesSince filters the sale cache to records referencing the SKU whose
// effective date (physical exit, else issue) is on or after since. It returns
// the latest matching sale, the summed line-item quantity over the whole
// filtered set, and whether any sale matched.
func salesSince(sales map[int64]models.OrderRecord, sku string, since models.Day) (models.OrderRecord, float64, bool) {
	var (
		last    models.OrderRecord
		sold    float64
		matched bool
	)
	for _, rec := range sales {
		item, ok := rec.ItemFor(sku)
		if !ok {
			continue
		}
		eff := rec.EffectiveDate()
		if eff.Before(since) {
			continue
		}
		sold += item.Quantity
		if !matched || eff.After(last.EffectiveDate()) {
			last = rec
		}
		matched = true
	}
	return last, sold, matched
}

// formatQuantity renders a quantity the way the sheet expects: no trailing
// zeros, integer quantities without a decimal point.
func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// Ensure ReconciliationServiceImpl implements the interface.
var _ primary.ReconciliationService = (*ReconciliationServiceImpl)(nil)
