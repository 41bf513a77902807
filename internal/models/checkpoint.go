package models

import "time"

// EpochDay is the default checkpoint used on first run or when the stored
// checkpoint is missing or corrupt.
var EpochDay = NewDay(2023, time.January, 1)

// Checkpoint marks the inclusive start of the next incremental collection
// window. It is advanced to "today" only after a fully successful run.
type Checkpoint struct {
	LastRun Day `json:"lastRun"`
}

// DefaultCheckpoint returns the first-run checkpoint at the fixed epoch.
func DefaultCheckpoint() Checkpoint {
	return Checkpoint{LastRun: EpochDay}
}
