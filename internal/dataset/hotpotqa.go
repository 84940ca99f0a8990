package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/stellarlinkco/agent-bench/internal/bench"
)

const defaultHotpotQAPath = "data/hotpotqa.jsonl"

// HotpotQALoader loads HotpotQA multi-hop questions from a JSONL file.
// Mode distinguishes the distractor and fullwiki settings and becomes part
// of the dataset tag.
type HotpotQALoader struct {
	Path  string
	Mode  string
	Limit int
}

type hotpotQARow struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Type     string `json:"type,omitempty"`
	Level    string `json:"level,omitempty"`
}

func (l *HotpotQALoader) Name() string { return "hotpotqa" }

func (l *HotpotQALoader) Description() string {
	return "HotpotQA multi-hop question answering"
}

func (l *HotpotQALoader) mode() string {
	m := strings.ToLower(strings.TrimSpace(l.Mode))
	if m == "" {
		m = "distractor"
	}
	return m
}

func (l *HotpotQALoader) Load(ctx context.Context) ([]bench.Record, error) {
	if ctx == nil {
		return nil, errors.New("hotpotqa: nil context")
	}

	tag := "hotpotqa_" + l.mode()

	path := pathOrDefault(l.Path, "AGENT_BENCH_HOTPOTQA_PATH", defaultHotpotQAPath)
	rows, err := readJSONL[hotpotQARow](ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(defaultHotpotQASample(tag), l.Limit), nil
		}
		return nil, fmt.Errorf("hotpotqa: load %q: %w", path, err)
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

		var meta map[string]any
		if row.Type != "" || row.Level != "" {
			meta = map[string]any{}
			if row.Type != "" {
				meta["type"] = row.Type
			}
			if row.Level != "" {
				meta["level"] = row.Level
			}
		}

		out = append(out, bench.Record{
			Dataset:     tag,
			Question:    q,
			GroundTruth: strings.TrimSpace(row.Answer),
			Metadata:    meta,
		})
	}

	out = takeFirstN(out, l.Limit)
	if len(out) == 0 {
		return takeFirstN(defaultHotpotQASample(tag), l.Limit), nil
	}
	return out, nil
}

func defaultHotpotQASample(tag string) []bench.Record {
	return []bench.Record{
		{
			Dataset:     tag,
			Question:    "Which city is home to the university where the inventor of the World Wide Web studied?",
			GroundTruth: "Oxford",
			Metadata:    map[string]any{"type": "bridge", "level": "medium"},
		},
		{
			Dataset:     tag,
			Question:    "What country borders both France and Germany and has Brussels as its capital?",
			GroundTruth: "Belgium",
			Metadata:    map[string]any{"type": "comparison", "level": "easy"},
		},
	}
}
