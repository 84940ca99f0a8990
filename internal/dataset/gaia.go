package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/stellarlinkco/agent-bench/internal/bench"
)

const defaultGAIAPath = "data/gaia.jsonl"

// GAIALoader loads GAIA general-assistant questions from a JSONL file.
type GAIALoader struct {
	Path  string
	Limit int
}

type gaiaRow struct {
	Question    string `json:"Question"`
	FinalAnswer string `json:"Final_answer"`
	Level       any    `json:"Level,omitempty"`
	FileName    string `json:"file_name,omitempty"`
}

func (l *GAIALoader) Name() string { return "gaia" }

func (l *GAIALoader) Description() string {
	return "GAIA general AI assistant benchmark"
}

func (l *GAIALoader) Load(ctx context.Context) ([]bench.Record, error) {
	if ctx == nil {
		return nil, errors.New("gaia: nil context")
	}

	path := pathOrDefault(l.Path, "AGENT_BENCH_GAIA_PATH", defaultGAIAPath)
	rows, err := readJSONL[gaiaRow](ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(defaultGAIASample(), l.Limit), nil
		}
		return nil, fmt.Errorf("gaia: load %q: %w", path, err)
	}

	out := make([]bench.Record, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		q := strings.TrimSpace(row.Question)
		if q == "" {
			continue
		}

		meta := map[string]any{}
		if row.Level != nil {
			meta["level"] = row.Level
		}
		if v := strings.TrimSpace(row.FileName); v != "" {
			meta["file_name"] = v
		}
		if len(meta) == 0 {
			meta = nil
		}

		out = append(out, bench.Record{
			Dataset:     "gaia",
			Question:    q,
			GroundTruth: strings.TrimSpace(row.FinalAnswer),
			Metadata:    meta,
		})
	}

	out = takeFirstN(out, l.Limit)
	if len(out) == 0 {
		return takeFirstN(defaultGAIASample(), l.Limit), nil
	}
	return out, nil
}

func defaultGAIASample() []bench.Record {
	return []bench.Record{
		{
			Dataset:     "gaia",
			Question:    "What is the capital of France?",
			GroundTruth: "Paris",
			Metadata:    map[string]any{"level": 1},
		},
		{
			Dataset:     "gaia",
			Question:    "How many sides does a hexagon have?",
			GroundTruth: "6",
			Metadata:    map[string]any{"level": 1},
		},
	}
}
