package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stellarlinkco/agent-bench/internal/bench"
	"github.com/stellarlinkco/agent-bench/internal/config"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func sampleRun(id string) (*RunRecord, []bench.EvalResult) {
	run := &RunRecord{
		ID:           id,
		StartedAt:    time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
		FinishedAt:   time.Date(2026, 8, 31, 10, 5, 0, 0, time.UTC),
		TotalSamples: 2,
		AverageScore: 0.5,
		Accuracy:     0.5,
		ByDataset:    map[string]float64{"gsm8k": 1, "gaia": 0},
		Config:       map[string]any{"concurrency": 10},
	}
	results := []bench.EvalResult{
		{
			Dataset:     "gsm8k",
			Question:    "2+2?",
			GroundTruth: "#### 4",
			Prediction:  "4",
			Score:       1,
			Metadata:    map[string]any{"split": "test"},
		},
		{
			Dataset:     "gaia",
			Question:    "Capital of France?",
			GroundTruth: "Paris",
			Prediction:  "Error: model unavailable",
			Score:       0,
		},
	}
	return run, results
}

func TestSaveRun_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	run, results := sampleRun("run_1")
	if err := st.SaveRun(ctx, run, results); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := st.GetRun(ctx, "run_1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.TotalSamples != 2 || got.AverageScore != 0.5 || got.Accuracy != 0.5 {
		t.Fatalf("run summary: got %+v", got)
	}
	if !got.StartedAt.Equal(run.StartedAt) {
		t.Fatalf("StartedAt: got %v want %v", got.StartedAt, run.StartedAt)
	}
	if got.ByDataset["gsm8k"] != 1 {
		t.Fatalf("ByDataset: got %v", got.ByDataset)
	}
	if got.Config["concurrency"] != float64(10) {
		t.Fatalf("Config: got %v", got.Config)
	}

	details, err := st.GetRunResults(ctx, "run_1")
	if err != nil {
		t.Fatalf("GetRunResults: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("len(details): got %d want %d", len(details), 2)
	}
	if details[0].Question != "2+2?" || details[1].Prediction != "Error: model unavailable" {
		t.Fatalf("details order: got %+v", details)
	}
	if details[0].Metadata["split"] != "test" {
		t.Fatalf("Metadata: got %v", details[0].Metadata)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	st := newTestStore(t)
	if _, err := st.GetRun(context.Background(), "nope"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("GetRun: got %v want ErrRunNotFound", err)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	older, results := sampleRun("run_old")
	if err := st.SaveRun(ctx, older, results); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	newer, results2 := sampleRun("run_new")
	newer.StartedAt = newer.StartedAt.Add(time.Hour)
	newer.FinishedAt = newer.FinishedAt.Add(time.Hour)
	if err := st.SaveRun(ctx, newer, results2); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	runs, err := st.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs): got %d want %d", len(runs), 2)
	}
	if runs[0].ID != "run_new" || runs[1].ID != "run_old" {
		t.Fatalf("run order: got %q, %q", runs[0].ID, runs[1].ID)
	}
}

func TestListRuns_Limit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		run, results := sampleRun(id)
		if err := st.SaveRun(ctx, run, results); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	runs, err := st.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs): got %d want %d", len(runs), 2)
	}
}

func TestSaveRun_Validation(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.SaveRun(ctx, nil, nil); err == nil {
		t.Fatalf("SaveRun: expected error for nil run")
	}
	if err := st.SaveRun(ctx, &RunRecord{}, nil); err == nil {
		t.Fatalf("SaveRun: expected error for empty run id")
	}
}

func TestOpen(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Type = "memory"

	st, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if _, err := st.ListRuns(context.Background(), 1); err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
}

func TestOpen_UnsupportedType(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Type = "postgres"
	if _, err := Open(cfg); err == nil {
		t.Fatalf("Open: expected error for unsupported type")
	}
}
