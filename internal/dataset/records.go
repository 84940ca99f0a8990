package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stellarlinkco/agent-bench/internal/bench"
)

// RecordsLoader loads pre-standardized records straight from a JSONL file.
// Each line must carry at least a dataset tag and a question; this is the
// escape hatch for corpora the built-in loaders don't know.
type RecordsLoader struct {
	Path  string
	Limit int
}

func (l *RecordsLoader) Name() string { return "records" }

func (l *RecordsLoader) Description() string {
	return "pre-standardized records from a JSONL file"
}

func (l *RecordsLoader) Load(ctx context.Context) ([]bench.Record, error) {
	if ctx == nil {
		return nil, errors.New("records: nil context")
	}
	if strings.TrimSpace(l.Path) == "" {
		return nil, errors.New("records: missing path")
	}

	rows, err := readJSONL[bench.Record](ctx, l.Path)
	if err != nil {
		return nil, fmt.Errorf("records: load %q: %w", l.Path, err)
	}

	out := make([]bench.Record, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.Question) == "" {
			return nil, fmt.Errorf("records: %q line %d: missing question", l.Path, i+1)
		}
		out = append(out, row)
	}
	return takeFirstN(out, l.Limit), nil
}
