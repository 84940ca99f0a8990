package store

import (
	"context"
	"errors"
	"time"

	"github.com/stellarlinkco/agent-bench/internal/bench"
)

// ErrRunNotFound is returned when no stored run matches the requested id.
var ErrRunNotFound = errors.New("run not found")

// RunWriter persists benchmark runs with their detailed results.
type RunWriter interface {
	SaveRun(ctx context.Context, run *RunRecord, results []bench.EvalResult) error
}

// RunReader reads back stored runs.
type RunReader interface {
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]*RunRecord, error)
	GetRunResults(ctx context.Context, runID string) ([]bench.EvalResult, error)
}

// Store defines persistence for benchmark run history.
type Store interface {
	RunWriter
	RunReader
	Close() error
}

// RunRecord stores one benchmark run's summary.
type RunRecord struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	TotalSamples int
	AverageScore float64
	Accuracy     float64
	ByDataset    map[string]float64
	Config       map[string]any // Serialized run configuration
}
