package primary

import (
	"context"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
)

// RunState is one stage of the run state machine. A run moves strictly
// forward through the states; any unrecoverable failure moves it to
// StateFailed and leaves the checkpoint untouched.
type RunState string

const (
	StateIdle                RunState = "idle"
	StateCheckpointLoaded    RunState = "checkpoint_loaded"
	StateCollectingPurchases RunState = "collecting_purchases"
	StateCollectingSales     RunState = "collecting_sales"
	StateReconciling         RunState = "reconciling"
	StateWriting             RunState = "writing"
	StateCheckpointAdvanced  RunState = "checkpoint_advanced"
	StateFailed              RunState = "failed"
)

// RunService defines the primary port for a full collection and
// reconciliation cycle.
type RunService interface {
	// Run executes one full cycle: load checkpoint → collect purchases →
	// collect sales → reconcile → write back rows → advance checkpoint.
	// On failure the returned report records the state the run failed in;
	// caches already persisted remain as partial progress.
	Run(ctx context.Context) (*RunReport, error)
}

// RunReport summarizes a completed (or failed) run.
type RunReport struct {
	RunID         string
	State         RunState
	Checkpoint    models.Day
	NextRun       models.Day
	Purchases     CollectStats
	Sales         CollectStats
	Reconciled    ReconcileResponse
	RequestsTotal int
}

