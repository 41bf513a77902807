package app

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ctxutil"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/primary"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

// RunServiceImpl implements the RunService interface: the single-threaded
// state machine driving one full collection and reconciliation cycle.
type RunServiceImpl struct {
	collection  primary.CollectionService
	reconciler  primary.ReconciliationService
	checkpoints secondary.CheckpointRepository
	sheets      secondary.TabularStore
	governor    *RateGovernor
	clock       secondary.Clock
	sheetID     string
	sheetRange  string
	logger      *log.Logger
}

// NewRunService creates a RunService with injected dependencies.
func NewRunService(
	collection primary.CollectionService,
	reconciler primary.ReconciliationService,
	checkpoints secondary.CheckpointRepository,
	sheets secondary.TabularStore,
	governor *RateGovernor,
	clock secondary.Clock,
	sheetID, sheetRange string,
	logger *log.Logger,
) *RunServiceImpl {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &RunServiceImpl{
		collection:  collection,
		reconciler:  reconciler,
		checkpoints: checkpoints,
		sheets:      sheets,
		governor:    governor,
		clock:       clock,
		sheetID:     sheetID,
		sheetRange:  sheetRange,
		logger:      logger,
	}
}

// Run executes one full cycle. The checkpoint is advanced to today only after
// reconciliation and write-back succeed; on any fatal error the report's
// state is StateFailed and caches already saved remain as partial progress
// for the next invocation.
func (s *RunServiceImpl) Run(ctx context.Context) (*primary.RunReport, error) {
	report := &primary.RunReport{
		RunID: ctxutil.NewRunID(),
		State: primary.StateIdle,
	}
	ctx = ctxutil.WithRunID(ctx, report.RunID)

	fail := func(err error) (*primary.RunReport, error) {
		report.State = primary.StateFailed
		report.RequestsTotal = s.governor.RequestCount()
		return report, err
	}

	cp, err := s.checkpoints.Load(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to load checkpoint: %w", err))
	}
	report.State = primary.StateCheckpointLoaded
	report.Checkpoint = cp.LastRun
	s.logger.Printf("run %s: collecting since %s", report.RunID, cp.LastRun)

	raw, err := s.sheets.GetRange(ctx, s.sheetID, s.sheetRange)
	if err != nil {
		return fail(fmt.Errorf("failed to read tracked SKUs: %w", err))
	}
	if len(raw) == 0 {
		return fail(fmt.Errorf("tracked SKU sheet %s!%s is empty", s.sheetID, s.sheetRange))
	}
	header := raw[0]
	rows := make([]*models.SKURow, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		rows = append(rows, models.NewSKURow(cells))
	}

	report.State = primary.StateCollectingPurchases
	purchases, err := s.collection.Collect(ctx, primary.CollectRequest{
		Kind:        models.KindPurchase,
		WindowStart: cp.LastRun,
	})
	if err != nil {
		return fail(fmt.Errorf("purchase collection failed: %w", err))
	}
	report.Purchases = purchases.Stats

	report.State = primary.StateCollectingSales
	sales, err := s.collection.Collect(ctx, primary.CollectRequest{
		Kind:        models.KindSale,
		WindowStart: cp.LastRun,
	})
	if err != nil {
		return fail(fmt.Errorf("sale collection failed: %w", err))
	}
	report.Sales = sales.Stats

	report.State = primary.StateReconciling
	reconciled, err := s.reconciler.Reconcile(ctx, primary.ReconcileRequest{
		Rows:       rows,
		Purchases:  purchases.Cache,
		Sales:      sales.Cache,
		Checkpoint: cp.LastRun,
	})
	if err != nil {
		return fail(fmt.Errorf("reconciliation failed: %w", err))
	}
	report.Reconciled = *reconciled

	report.State = primary.StateWriting
	out := make([][]string, 0, len(rows)+1)
	out = append(out, header)
	for _, row := range rows {
		out = append(out, row.Cells())
	}
	if err := s.sheets.UpdateRange(ctx, s.sheetID, s.sheetRange, out); err != nil {
		return fail(fmt.Errorf("failed to write tracked SKUs: %w", err))
	}

	cp.LastRun = models.DayOf(s.clock.Now())
	if err := s.checkpoints.Save(ctx, cp); err != nil {
		return fail(fmt.Errorf("failed to advance checkpoint: %w", err))
	}
	report.State = primary.StateCheckpointAdvanced
	report.NextRun = cp.LastRun
	report.RequestsTotal = s.governor.RequestCount()
	s.logger.Printf("run %s: done, next lastRun = %s", report.RunID, cp.LastRun)

	return report, nil
}

// Ensure RunServiceImpl implements the interface.
var _ primary.RunService = (*RunServiceImpl)(nil)
