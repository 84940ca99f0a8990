package bench

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/stellarlinkco/agent-bench/internal/scoring"
)

// DefaultConcurrency bounds simultaneous in-flight agent calls when the
// config does not say otherwise.
const DefaultConcurrency = 10

// Config defines runner behavior.
type Config struct {
	// Concurrency is the maximum number of in-flight agent invocations.
	Concurrency int
	// OnResult, if set, is called after each record completes. Calls are
	// serialized. This is a progress side effect, not part of the contract.
	OnResult func(done, total int, r EvalResult)
}

// Runner evaluates an agent over benchmark records under a concurrency cap.
//
// Results preserve input order: each record's EvalResult lands at the
// record's input index, so repeated runs over the same records aggregate
// into reproducible reports without sorting.
type Runner struct {
	agent Agent
	cfg   Config

	sem chan struct{}
}

// NewRunner creates a Runner with defaults applied.
func NewRunner(agent Agent, cfg Config) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Runner{
		agent: agent,
		cfg:   cfg,
		sem:   make(chan struct{}, cfg.Concurrency),
	}
}

// Run evaluates every record and returns one EvalResult per record.
//
// A failing agent invocation never aborts the run: the failure is captured
// as a scored result with prediction "Error: <message>". If ctx is canceled
// mid-run, records not yet started are skipped, in-flight records finish and
// keep their complete results, and Run returns the completed prefix together
// with ctx.Err().
func (r *Runner) Run(ctx context.Context, records []Record) ([]EvalResult, error) {
	if r == nil {
		return nil, errors.New("bench: nil runner")
	}
	if ctx == nil {
		return nil, errors.New("bench: nil context")
	}
	if r.agent == nil {
		return nil, errors.New("bench: nil agent")
	}
	if len(records) == 0 {
		return nil, errors.New("bench: empty dataset")
	}
	for i := range records {
		if strings.TrimSpace(records[i].Question) == "" {
			return nil, fmt.Errorf("bench: records[%d]: missing question", i)
		}
	}

	total := len(records)
	results := make([]EvalResult, total)

	var (
		wg       sync.WaitGroup
		done     atomic.Int64
		notifyMu sync.Mutex
	)

	launched := 0
recordLoop:
	for i := range records {
		select {
		case r.sem <- struct{}{}:
		case <-ctx.Done():
			break recordLoop
		}

		launched++
		idx := i
		rec := records[i]

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-r.sem }()

			res := r.evalRecord(ctx, rec)
			// Each goroutine owns exactly one slot; no lock needed.
			results[idx] = res

			n := int(done.Add(1))
			if r.cfg.OnResult != nil {
				notifyMu.Lock()
				r.cfg.OnResult(n, total, res)
				notifyMu.Unlock()
			}
		}()
	}
	wg.Wait()

	if launched < total {
		return results[:launched], ctx.Err()
	}
	return results, nil
}

// evalRecord makes exactly one agent invocation, normalizes the response,
// and scores it. It always produces a complete EvalResult.
func (r *Runner) evalRecord(ctx context.Context, rec Record) EvalResult {
	var answer, rationale string

	raw, err := r.agent.Answer(ctx, rec.Question)
	if err != nil {
		answer = "Error: " + err.Error()
	} else {
		answer, rationale = normalizeResponse(raw)
	}

	return EvalResult{
		Question:    rec.Question,
		GroundTruth: rec.GroundTruth,
		Prediction:  answer,
		Rationale:   rationale,
		Score:       scoring.Score(answer, rec.GroundTruth, rec.Dataset),
		Dataset:     rec.Dataset,
		Metadata:    rec.Metadata,
	}
}
