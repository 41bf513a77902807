package app

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/primary"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

// DefaultPageSize is the listing page size of the remote API.
const DefaultPageSize = 100

// CollectionServiceImpl implements the CollectionService interface: the
// paginated collectors for purchases and sales, plus the live stock balance
// lookup. Every outbound call goes through the rate governor and the retrier.
type CollectionServiceImpl struct {
	api        secondary.OrderAPI
	cacheRepo  secondary.RecordCacheRepository
	governor   *RateGovernor
	retrier    *Retrier
	clock      secondary.Clock
	categoryID int64
	pageSize   int
	logger     *log.Logger
}

// NewCollectionService creates a CollectionService with injected
// dependencies. categoryID is the purchase acceptance category; a purchase
// detail with any other category is discarded, never cached.
func NewCollectionService(
	api secondary.OrderAPI,
	cacheRepo secondary.RecordCacheRepository,
	governor *RateGovernor,
	retrier *Retrier,
	clock secondary.Clock,
	categoryID int64,
	logger *log.Logger,
) *CollectionServiceImpl {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CollectionServiceImpl{
		api:        api,
		cacheRepo:  cacheRepo,
		governor:   governor,
		retrier:    retrier,
		clock:      clock,
		categoryID: categoryID,
		pageSize:   DefaultPageSize,
		logger:     logger,
	}
}

// Collect walks listing pages from req.WindowStart to today, fetching detail
// only for identifiers not already cached, and persists the merged snapshot
// once all pages are exhausted.
func (s *CollectionServiceImpl) Collect(ctx context.Context, req primary.CollectRequest) (*primary.CollectResponse, error) {
	cache, err := s.cacheRepo.Load(ctx, req.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s cache: %w", req.Kind, err)
	}

	// The window end is frozen once per invocation so a run straddling a
	// day boundary queries a consistent upper bound on every page.
	windowEnd := models.DayOf(s.clock.Now())

	stats := primary.CollectStats{
		Kind:        req.Kind,
		WindowStart: req.WindowStart,
		WindowEnd:   windowEnd,
	}

	for page := 1; ; page++ {
		q := secondary.ListQuery{
			Page:  page,
			Limit: s.pageSize,
			Start: req.WindowStart,
			End:   windowEnd,
		}
		s.logger.Printf("%s p.%d: window %s..%s", req.Kind, page, req.WindowStart, windowEnd)

		listings, ok, err := Attempt(ctx, s.retrier,
			fmt.Sprintf("list %s page %d", req.Kind, page),
			func(ctx context.Context) ([]secondary.OrderListing, error) {
				var out []secondary.OrderListing
				gerr := s.governor.Do(ctx, func(ctx context.Context) error {
					var lerr error
					out, lerr = s.api.ListOrders(ctx, req.Kind, q)
					return lerr
				})
				return out, gerr
			})
		if err != nil {
			return nil, err
		}
		// A degraded listing call counts as an empty page: pagination
		// stops, the cache built so far is still saved.
		if !ok || len(listings) == 0 {
			break
		}

		stats.Pages++
		stats.Listed += len(listings)

		for _, listing := range listings {
			if _, hit := cache[listing.ID]; hit {
				stats.CacheHits++
				continue
			}
			s.logger.Printf("   detail %s %d", req.Kind, listing.ID)

			detail, ok, err := Attempt(ctx, s.retrier,
				fmt.Sprintf("detail %s %d", req.Kind, listing.ID),
				func(ctx context.Context) (*models.OrderRecord, error) {
					var out *models.OrderRecord
					gerr := s.governor.Do(ctx, func(ctx context.Context) error {
						var derr error
						out, derr = s.api.GetOrder(ctx, req.Kind, listing.ID)
						return derr
					})
					return out, gerr
				})
			if err != nil {
				return nil, err
			}
			if !ok || detail == nil {
				continue
			}

			stats.Fetched++
			if !s.accepts(req.Kind, detail) {
				continue
			}
			cache[detail.ID] = *detail
			stats.Accepted++
			s.logger.Printf("   added %s %d", req.Kind, detail.ID)
		}
	}

	if err := s.cacheRepo.Save(ctx, req.Kind, cache); err != nil {
		return nil, fmt.Errorf("failed to save %s cache: %w", req.Kind, err)
	}
	stats.CacheSize = len(cache)

	return &primary.CollectResponse{Cache: cache, Stats: stats}, nil
}

// StockBalance performs the live balance lookup for a SKU. Transient failures
// and missing data return 0; only quota exhaustion surfaces as an error.
func (s *CollectionServiceImpl) StockBalance(ctx context.Context, sku string) (float64, error) {
	s.logger.Printf("balance SKU %s", sku)
	balance, ok, err := Attempt(ctx, s.retrier,
		fmt.Sprintf("stock balance %s", sku),
		func(ctx context.Context) (float64, error) {
			var out float64
			gerr := s.governor.Do(ctx, func(ctx context.Context) error {
				var berr error
				out, berr = s.api.StockBalance(ctx, sku)
				return berr
			})
			return out, gerr
		})
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return balance, nil
}

// accepts applies the kind's acceptance predicate. Sales are accepted
// unconditionally; purchases must carry the configured category.
func (s *CollectionServiceImpl) accepts(kind models.OrderKind, rec *models.OrderRecord) bool {
	if kind != models.KindPurchase {
		return true
	}
	return rec.CategoryID == s.categoryID
}

// Ensure CollectionServiceImpl implements the interface.
var _ primary.CollectionService = (*CollectionServiceImpl)(nil)
