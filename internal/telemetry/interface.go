package telemetry

import (
	"context"
	"time"
)

// Collector defines the core domain interface
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Snapshot captures the acquisition statistics of one cycle. It records
// operational state only, never the waveform itself.
type Snapshot struct {
	Timestamp       time.Time
	SamplesIngested int
	DecodeErrors    int
	DominantHz      float64
	Paused          bool
}
