// Package export writes evaluation results and their summary report to disk.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/stellarlinkco/agent-bench/internal/bench"
	"github.com/stellarlinkco/agent-bench/internal/report"
)

// Paths names the files one Save call produced.
type Paths struct {
	JSON string
	CSV  string
}

var timeNow = time.Now

// Save writes <name>.json (summary plus details) and <name>.csv (tabular
// details) under dir. An empty name falls back to a timestamp-derived one; a
// provided name keeps only its base without extension. Empty results are an
// error; no files are written.
func Save(dir, name string, results []bench.EvalResult) (*Paths, error) {
	if len(results) == 0 {
		return nil, errors.New("export: no results to save")
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "result"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create dir %q: %w", dir, err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "benchmark_results_" + timeNow().Format("20060102_150405")
	}
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	out, err := report.Combined(coerceResults(results))
	if err != nil {
		return nil, err
	}

	paths := &Paths{
		JSON: filepath.Join(dir, name+".json"),
		CSV:  filepath.Join(dir, name+".csv"),
	}

	if err := writeJSON(paths.JSON, out); err != nil {
		return nil, err
	}
	if err := writeCSV(paths.CSV, out.Details); err != nil {
		return nil, err
	}
	return paths, nil
}

func writeJSON(path string, out *report.RunOutput) error {
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal json: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("export: write %q: %w", path, err)
	}
	return nil
}

var csvHeader = []string{"dataset", "question", "ground_truth", "prediction", "rationale", "score", "metadata"}

func writeCSV(path string, details []bench.EvalResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("export: write csv header: %w", err)
	}
	for i := range details {
		d := &details[i]
		row := []string{
			d.Dataset,
			d.Question,
			d.GroundTruth,
			d.Prediction,
			d.Rationale,
			strconv.FormatFloat(d.Score, 'g', -1, 64),
			metadataCell(d.Metadata),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("export: write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export: flush csv: %w", err)
	}
	return f.Close()
}

func metadataCell(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return fmt.Sprint(meta)
	}
	return string(b)
}

// coerceResults replaces non-serializable metadata values with their string
// representation so serialization never fails on benchmark oddities.
func coerceResults(results []bench.EvalResult) []bench.EvalResult {
	out := make([]bench.EvalResult, len(results))
	copy(out, results)
	for i := range out {
		out[i].Metadata = coerceMetadata(out[i].Metadata)
	}
	return out
}

func coerceMetadata(meta map[string]any) map[string]any {
	if len(meta) == 0 {
		return meta
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		if _, err := json.Marshal(v); err != nil {
			out[k] = fmt.Sprint(v)
			continue
		}
		out[k] = v
	}
	return out
}
