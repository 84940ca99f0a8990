package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/stellarlinkco/agent-bench/internal/bench"
	"github.com/stellarlinkco/agent-bench/internal/report"
)

type outputFormat int

const (
	formatTable outputFormat = iota
	formatJSON
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return formatTable, nil
	case "json":
		return formatJSON, nil
	default:
		return formatTable, fmt.Errorf("unknown output format %q (expected table|json)", s)
	}
}

func printReportTable(w io.Writer, rep *report.Report, results []bench.EvalResult) {
	if rep == nil {
		return
	}

	fmt.Fprintf(w, "Samples:  %d\n", rep.TotalSamples)
	fmt.Fprintf(w, "Score:    %.4f\n", rep.AverageScore)
	fmt.Fprintf(w, "Accuracy: %.4f\n", rep.Accuracy)

	if len(rep.ByDataset) > 0 {
		names := make([]string, 0, len(rep.ByDataset))
		for name := range rep.ByDataset {
			names = append(names, name)
		}
		sort.Strings(names)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "\nDATASET\tSCORE")
		for _, name := range names {
			fmt.Fprintf(tw, "%s\t%.4f\n", name, rep.ByDataset[name])
		}
		_ = tw.Flush()
	}

	failed := 0
	for _, r := range results {
		if r.Score == 0 {
			failed++
		}
	}
	fmt.Fprintf(w, "Failed:   %d/%d\n", failed, len(results))
}

func printReportJSON(w io.Writer, rep *report.Report, results []bench.EvalResult) error {
	if rep == nil {
		return fmt.Errorf("output: nil report")
	}
	out := report.RunOutput{
		Report:  *rep,
		Details: results,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
