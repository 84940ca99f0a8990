package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stellarlinkco/agent-bench/internal/bench"
)

func sampleResults() []bench.EvalResult {
	return []bench.EvalResult{
		{
			Question:    "What is 2+2?",
			GroundTruth: "#### 4",
			Prediction:  "The answer is 4.",
			Score:       1,
			Dataset:     "gsm8k",
			Metadata:    map[string]any{"split": "test"},
		},
		{
			Question:    "Capital of France?",
			GroundTruth: "Paris",
			Prediction:  "London",
			Score:       0,
			Dataset:     "gaia",
		},
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()

	paths, err := Save(dir, "verification_run", sampleResults())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(paths.JSON) != "verification_run.json" {
		t.Fatalf("JSON path: got %q", paths.JSON)
	}
	if filepath.Base(paths.CSV) != "verification_run.csv" {
		t.Fatalf("CSV path: got %q", paths.CSV)
	}

	b, err := os.ReadFile(paths.JSON)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded["total_samples"] != float64(2) {
		t.Fatalf("total_samples: got %v want %v", decoded["total_samples"], 2)
	}
	if decoded["average_score"] != 0.5 {
		t.Fatalf("average_score: got %v want %v", decoded["average_score"], 0.5)
	}
	details, _ := decoded["details"].([]any)
	if len(details) != 2 {
		t.Fatalf("details: got %d want %d", len(details), 2)
	}

	f, err := os.Open(paths.CSV)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("csv rows: got %d want %d", len(rows), 3)
	}
	if rows[0][0] != "dataset" || rows[0][1] != "question" {
		t.Fatalf("csv header: got %v", rows[0])
	}
	if rows[1][5] != "1" {
		t.Fatalf("csv score cell: got %q want %q", rows[1][5], "1")
	}
}

func TestSave_DefaultNameIsTimestamped(t *testing.T) {
	orig := timeNow
	timeNow = func() time.Time { return time.Date(2026, 8, 31, 12, 30, 45, 0, time.UTC) }
	defer func() { timeNow = orig }()

	paths, err := Save(t.TempDir(), "", sampleResults())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(paths.JSON) != "benchmark_results_20260831_123045.json" {
		t.Fatalf("JSON path: got %q", paths.JSON)
	}
}

func TestSave_StripsExtension(t *testing.T) {
	paths, err := Save(t.TempDir(), "run.json", sampleResults())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(paths.JSON) != "run.json" || filepath.Base(paths.CSV) != "run.csv" {
		t.Fatalf("paths: got %q / %q", paths.JSON, paths.CSV)
	}
}

func TestSave_EmptyResults(t *testing.T) {
	if _, err := Save(t.TempDir(), "x", nil); err == nil {
		t.Fatalf("Save: expected error for empty results")
	}
}

func TestSave_CoercesNonSerializableMetadata(t *testing.T) {
	results := sampleResults()
	results[0].Metadata = map[string]any{"bad": func() {}, "ok": 1}

	paths, err := Save(t.TempDir(), "coerce", results)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := os.ReadFile(paths.JSON)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(b), `"ok": 1`) {
		t.Fatalf("metadata lost: %s", b)
	}
}
