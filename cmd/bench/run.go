package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/agent-bench/internal/agent"
	"github.com/stellarlinkco/agent-bench/internal/bench"
	"github.com/stellarlinkco/agent-bench/internal/config"
	"github.com/stellarlinkco/agent-bench/internal/dataset"
	"github.com/stellarlinkco/agent-bench/internal/export"
	"github.com/stellarlinkco/agent-bench/internal/report"
	"github.com/stellarlinkco/agent-bench/internal/store"
)

type runOptions struct {
	dataset     string
	path        string
	limit       int
	concurrency int
	provider    string
	model       string
	system      string
	rationale   bool
	output      string
	outputDir   string
	name        string
	noSave      bool
	noStore     bool
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a benchmark dataset and report scores",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "dataset: gsm8k|hotpotqa|gaia|mmmu")
	cmd.Flags().StringVar(&opts.path, "path", "", "path to a standardized JSONL records file (overrides --dataset)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "max records to evaluate (0 = all)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "max concurrent agent calls (overrides config)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "provider name (overrides config)")
	cmd.Flags().StringVar(&opts.model, "model", "", "model name (overrides config)")
	cmd.Flags().StringVar(&opts.system, "system", "", "system prompt for the agent")
	cmd.Flags().BoolVar(&opts.rationale, "rationale", false, "ask the agent for a rationale alongside the answer")
	cmd.Flags().StringVar(&opts.output, "output", "table", "output format: table|json")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "directory for result files (overrides config)")
	cmd.Flags().StringVar(&opts.name, "name", "", "base name for result files")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "skip writing result files")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "skip recording the run in history")

	return cmd
}

func runBenchmark(cmd *cobra.Command, st *cliState, opts *runOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("run: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("run: nil options")
	}

	format, err := parseOutputFormat(opts.output)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	loader, err := resolveLoader(opts)
	if err != nil {
		return err
	}

	provider, err := resolveProvider(st.cfg, opts.provider, opts.model)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	agentOpts := make([]agent.LLMOption, 0, 2)
	if strings.TrimSpace(opts.system) != "" {
		agentOpts = append(agentOpts, agent.WithSystem(opts.system))
	}
	if opts.rationale {
		agentOpts = append(agentOpts, agent.WithRationale())
	}
	a := agent.NewLLMAgent(provider, agentOpts...)

	concurrency := st.cfg.Evaluation.Concurrency
	if opts.concurrency > 0 {
		concurrency = opts.concurrency
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("run: dataset %q has no records", loader.Name())
	}

	errWriter := cmd.ErrOrStderr()
	runner := bench.NewRunner(a, bench.Config{
		Concurrency: concurrency,
		OnResult: func(done, total int, _ bench.EvalResult) {
			if format == formatTable {
				fmt.Fprintf(errWriter, "\rEvaluating %d/%d", done, total)
				if done == total {
					fmt.Fprintln(errWriter)
				}
			}
		},
	})

	startedAt := time.Now().UTC()
	results, runErr := runner.Run(ctx, records)
	finishedAt := time.Now().UTC()
	if runErr != nil && len(results) == 0 {
		return runErr
	}

	rep, err := report.Summarize(results)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case formatTable:
		printReportTable(out, rep, results)
	case formatJSON:
		if err := printReportJSON(out, rep, results); err != nil {
			return err
		}
	}

	if !opts.noSave {
		paths, err := export.Save(resolveOutputDir(st.cfg, opts.outputDir), opts.name, results)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Results saved: %s, %s\n", paths.JSON, paths.CSV)
	}

	if !opts.noStore {
		// Not the run context: history is written even after an interrupt.
		if err := saveRunHistory(context.Background(), st.cfg, opts, loader.Name(), provider.Name(), rep, results, startedAt, finishedAt); err != nil {
			return err
		}
	}

	return runErr
}

func resolveLoader(opts *runOptions) (dataset.Loader, error) {
	if path := strings.TrimSpace(opts.path); path != "" {
		return &dataset.RecordsLoader{Path: path, Limit: opts.limit}, nil
	}

	name := strings.ToLower(strings.TrimSpace(opts.dataset))
	if name == "" {
		return nil, fmt.Errorf("run: specify --dataset (%s) or --path", strings.Join(dataset.Names(), "|"))
	}
	loader, ok := dataset.ByName(name, opts.limit)
	if !ok {
		return nil, fmt.Errorf("run: unknown dataset %q (expected %s)", name, strings.Join(dataset.Names(), "|"))
	}
	return loader, nil
}

func resolveProvider(cfg *config.Config, providerFlag string, modelFlag string) (agent.Provider, error) {
	if model := strings.TrimSpace(modelFlag); model != "" {
		cfg = overrideModel(cfg, providerFlag, model)
	}
	return agent.ProviderFromConfig(cfg, providerFlag)
}

// overrideModel copies the provider map so a --model flag never mutates
// shared config state.
func overrideModel(cfg *config.Config, providerFlag string, model string) *config.Config {
	if cfg == nil {
		return nil
	}

	name := strings.ToLower(strings.TrimSpace(providerFlag))
	if name == "" {
		name = strings.ToLower(strings.TrimSpace(cfg.LLM.DefaultProvider))
	}
	if name == "" {
		return cfg
	}

	clone := *cfg
	clone.LLM.Providers = make(map[string]config.ProviderConfig, len(cfg.LLM.Providers))
	for k, v := range cfg.LLM.Providers {
		clone.LLM.Providers[k] = v
	}
	pcfg := clone.LLM.Providers[name]
	pcfg.Model = model
	clone.LLM.Providers[name] = pcfg
	return &clone
}

func resolveOutputDir(cfg *config.Config, flagValue string) string {
	if dir := strings.TrimSpace(flagValue); dir != "" {
		return dir
	}
	if cfg != nil {
		return cfg.Output.Dir
	}
	return ""
}

func saveRunHistory(
	ctx context.Context,
	cfg *config.Config,
	opts *runOptions,
	datasetName string,
	providerName string,
	rep *report.Report,
	results []bench.EvalResult,
	startedAt time.Time,
	finishedAt time.Time,
) error {
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := newRunID()
	if err != nil {
		return err
	}

	run := &store.RunRecord{
		ID:           id,
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
		TotalSamples: rep.TotalSamples,
		AverageScore: rep.AverageScore,
		Accuracy:     rep.Accuracy,
		ByDataset:    rep.ByDataset,
		Config: map[string]any{
			"dataset":     datasetName,
			"provider":    providerName,
			"limit":       opts.limit,
			"concurrency": opts.concurrency,
			"rationale":   opts.rationale,
		},
	}
	return st.SaveRun(ctx, run, results)
}

func newRunID() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("run_%s_%x", time.Now().UTC().Format("20060102T150405Z"), buf), nil
}
