package main

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/agent-bench/internal/store"
)

type historyOptions struct {
	limit int
}

func newHistoryCmd(st *cliState) *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past benchmark runs",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, st, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 20, "max runs to list")

	cmd.AddCommand(newHistoryShowCmd(st))
	return cmd
}

func newHistoryShowCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show details for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, st, args[0])
		},
	}
}

func runHistoryList(cmd *cobra.Command, st *cliState, opts *historyOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}

	s, err := store.Open(st.cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	runs, err := s.ListRuns(cmd.Context(), opts.limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tSAMPLES\tSCORE\tACCURACY")
	for _, run := range runs {
		if run == nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.4f\t%.4f\n",
			run.ID,
			run.StartedAt.UTC().Format(time.RFC3339),
			run.TotalSamples,
			run.AverageScore,
			run.Accuracy,
		)
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, st *cliState, id string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}

	s, err := store.Open(st.cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	run, err := s.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	results, err := s.GetRunResults(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:      %s\n", run.ID)
	fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(out, "Finished: %s\n", run.FinishedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(out, "Samples:  %d\n", run.TotalSamples)
	fmt.Fprintf(out, "Score:    %.4f\n", run.AverageScore)
	fmt.Fprintf(out, "Accuracy: %.4f\n", run.Accuracy)

	if len(run.ByDataset) > 0 {
		names := make([]string, 0, len(run.ByDataset))
		for name := range run.ByDataset {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  %s: %.4f\n", name, run.ByDataset[name])
		}
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nDATASET\tSCORE\tQUESTION")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\n", r.Dataset, r.Score, truncate(r.Question, 60))
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	if n <= 3 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
