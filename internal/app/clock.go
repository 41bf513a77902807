package app

import (
	"time"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

// SystemClock is the wall clock used outside tests.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

var _ secondary.Clock = SystemClock{}
