package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/stellarlinkco/agent-bench/internal/bench"
)

const defaultGSM8KPath = "data/gsm8k.jsonl"

// GSM8KLoader loads GSM8K grade-school math word problems from a JSONL file.
// The ground truth keeps the dataset's raw answer text (including the
// "#### N" suffix); the numeric scoring rule extracts the final number.
type GSM8KLoader struct {
	Path  string
	Limit int
}

type gsm8kRow struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (l *GSM8KLoader) Name() string { return "gsm8k" }

func (l *GSM8KLoader) Description() string {
	return "GSM8K grade-school math word problems"
}

func (l *GSM8KLoader) Load(ctx context.Context) ([]bench.Record, error) {
	if ctx == nil {
		return nil, errors.New("gsm8k: nil context")
	}

	path := pathOrDefault(l.Path, "AGENT_BENCH_GSM8K_PATH", defaultGSM8KPath)
	rows, err := readJSONL[gsm8kRow](ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(defaultGSM8KSample(), l.Limit), nil
		}
		return nil, fmt.Errorf("gsm8k: load %q: %w", path, err)
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

		out = append(out, bench.Record{
			Dataset:     "gsm8k",
			Question:    q,
			GroundTruth: strings.TrimSpace(row.Answer),
		})
	}

	out = takeFirstN(out, l.Limit)
	if len(out) == 0 {
		return takeFirstN(defaultGSM8KSample(), l.Limit), nil
	}
	return out, nil
}

func defaultGSM8KSample() []bench.Record {
	return []bench.Record{
		{
			Dataset:     "gsm8k",
			Question:    "If you have 3 apples and buy 2 more, how many apples do you have?",
			GroundTruth: "#### 5",
		},
		{
			Dataset:     "gsm8k",
			Question:    "A box has 12 candies. You eat 5. How many are left?",
			GroundTruth: "#### 7",
		},
		{
			Dataset:     "gsm8k",
			Question:    "John has $10 and buys 3 items that each cost $2. How much money does he have left?",
			GroundTruth: "#### 4",
		},
	}
}
