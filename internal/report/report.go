// Package report reduces evaluation results into summary statistics.
package report

import (
	"errors"

	"github.com/stellarlinkco/agent-bench/internal/bench"
)

// ErrNoResults signals aggregation over an empty result collection.
var ErrNoResults = errors.New("report: no results")

// Report summarizes a result collection. It is derived data, recomputed on
// demand; calling Summarize twice on the same collection yields identical
// output.
type Report struct {
	TotalSamples int                `json:"total_samples"`
	AverageScore float64            `json:"average_score"`
	Accuracy     float64            `json:"accuracy"`
	ByDataset    map[string]float64 `json:"by_dataset,omitempty"`
}

// RunOutput combines a report with the detailed per-record results, in the
// shape downstream serialization consumers expect.
type RunOutput struct {
	Report
	Details []bench.EvalResult `json:"details"`
}

// Summarize computes summary statistics over results. An empty collection
// returns ErrNoResults rather than a zeroed report.
func Summarize(results []bench.EvalResult) (*Report, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	var (
		sum     float64
		perfect int
	)
	datasetSum := make(map[string]float64)
	datasetCount := make(map[string]int)

	for i := range results {
		r := &results[i]
		sum += r.Score
		if r.Score == 1.0 {
			perfect++
		}
		datasetSum[r.Dataset] += r.Score
		datasetCount[r.Dataset]++
	}

	n := len(results)
	out := &Report{
		TotalSamples: n,
		AverageScore: sum / float64(n),
		Accuracy:     float64(perfect) / float64(n),
	}

	// Per-dataset breakdown only makes sense for mixed runs.
	if len(datasetCount) > 1 {
		out.ByDataset = make(map[string]float64, len(datasetCount))
		for tag, s := range datasetSum {
			out.ByDataset[tag] = s / float64(datasetCount[tag])
		}
	}

	return out, nil
}

// Combined builds the serializable report-plus-details structure.
func Combined(results []bench.EvalResult) (*RunOutput, error) {
	rep, err := Summarize(results)
	if err != nil {
		return nil, err
	}
	return &RunOutput{
		Report:  *rep,
		Details: results,
	}, nil
}
