// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/primary"
)

// RunAdapter drives a full run through the RunService and renders the
// resulting report. It depends only on the RunService interface, enabling
// easy testing with mocks.
type RunAdapter struct {
	service primary.RunService
	out     io.Writer
}

// NewRunAdapter creates a new RunAdapter with the given service.
func NewRunAdapter(service primary.RunService, out io.Writer) *RunAdapter {
	return &RunAdapter{
		service: service,
		out:     out,
	}
}

// Run executes one collection and reconciliation cycle and prints the
// report. The report is printed even when the run failed, so the operator
// sees which state it died in and how much partial progress was kept.
func (a *RunAdapter) Run(ctx context.Context) error {
	report, err := a.service.Run(ctx)
	if report != nil {
		a.printReport(report)
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}

func (a *RunAdapter) printReport(r *primary.RunReport) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(a.out, "\n%s %s\n", bold("Run"), r.RunID)
	if r.State == primary.StateCheckpointAdvanced {
		fmt.Fprintf(a.out, "State:      %s\n", green(string(r.State)))
	} else {
		fmt.Fprintf(a.out, "State:      %s\n", red(string(r.State)))
	}
	fmt.Fprintf(a.out, "Window:     since %s\n", r.Checkpoint)
	a.printStats(r.Purchases)
	a.printStats(r.Sales)
	if r.Reconciled.RowsTotal > 0 {
		fmt.Fprintf(a.out, "Reconciled: %d rows (%d purchases, %d sales)\n",
			r.Reconciled.RowsTotal, r.Reconciled.RowsPurchased, r.Reconciled.RowsSold)
	}
	fmt.Fprintf(a.out, "Requests:   %d\n", r.RequestsTotal)
	if !r.NextRun.IsZero() {
		fmt.Fprintf(a.out, "Next run starts at %s\n", r.NextRun)
	}
}

func (a *RunAdapter) printStats(s primary.CollectStats) {
	if s.Kind == "" {
		return
	}
	label := "Purchases"
	if s.Kind == models.KindSale {
		label = "Sales"
	}
	fmt.Fprintf(a.out, "%-11s %d pages, %d listed, %d cache hits, %d fetched, %d accepted, cache %d\n",
		label+":", s.Pages, s.Listed, s.CacheHits, s.Fetched, s.Accepted, s.CacheSize)
}
