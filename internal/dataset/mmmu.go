package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/stellarlinkco/agent-bench/internal/bench"
)

const defaultMMMUPath = "data/mmmu.jsonl"

// MMMULoader loads MMMU multiple-choice questions from a JSONL file.
// The options list is folded into the question text so a text-only agent
// sees the choices; the ground truth is the option letter.
type MMMULoader struct {
	Path     string
	Subjects []string
	Limit    int
}

type mmmuRow struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
	Subject  string   `json:"subject,omitempty"`
}

func (l *MMMULoader) Name() string { return "mmmu" }

func (l *MMMULoader) Description() string {
	return "MMMU multi-discipline multiple-choice benchmark"
}

func (l *MMMULoader) Load(ctx context.Context) ([]bench.Record, error) {
	if ctx == nil {
		return nil, errors.New("mmmu: nil context")
	}

	path := pathOrDefault(l.Path, "AGENT_BENCH_MMMU_PATH", defaultMMMUPath)
	rows, err := readJSONL[mmmuRow](ctx, path)
	if err != nil {
		if os.IsNotExist(err) {
			return takeFirstN(defaultMMMUSample(), l.Limit), nil
		}
		return nil, fmt.Errorf("mmmu: load %q: %w", path, err)
	}

	subjectSet := normalizeStringSet(l.Subjects)
	out := make([]bench.Record, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		subject := strings.TrimSpace(row.Subject)
		if len(subjectSet) > 0 && !subjectSet[strings.ToLower(subject)] {
			continue
		}

		q := strings.TrimSpace(row.Question)
		if q == "" {
			continue
		}

		tag := "mmmu"
		if subject != "" {
			tag = "mmmu_" + subject
		}

		meta := map[string]any{"options": row.Options}
		if subject != "" {
			meta["subject"] = subject
		}

		out = append(out, bench.Record{
			Dataset:     tag,
			Question:    formatMCQQuestion(q, row.Options),
			GroundTruth: strings.TrimSpace(row.Answer),
			Metadata:    meta,
		})
	}

	out = takeFirstN(out, l.Limit)
	if len(out) == 0 {
		return takeFirstN(defaultMMMUSample(), l.Limit), nil
	}
	return out, nil
}

func formatMCQQuestion(question string, options []string) string {
	if len(options) == 0 {
		return question
	}

	var sb strings.Builder
	sb.WriteString(question)
	sb.WriteString("\nOptions:\n")
	for i, opt := range options {
		if i >= 26 {
			break
		}
		sb.WriteByte(byte('A' + i))
		sb.WriteString(". ")
		sb.WriteString(strings.TrimSpace(opt))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func normalizeStringSet(in []string) map[string]bool {
	out := make(map[string]bool)
	for _, s := range in {
		v := strings.ToLower(strings.TrimSpace(s))
		if v == "" {
			continue
		}
		out[v] = true
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func defaultMMMUSample() []bench.Record {
	return []bench.Record{
		{
			Dataset:     "mmmu_Astronomy",
			Question:    formatMCQQuestion("Which planet is known as the Red Planet?", []string{"Earth", "Mars", "Jupiter", "Venus"}),
			GroundTruth: "B",
			Metadata:    map[string]any{"subject": "Astronomy", "options": []string{"Earth", "Mars", "Jupiter", "Venus"}},
		},
		{
			Dataset:     "mmmu_Math",
			Question:    formatMCQQuestion("What is 7 * 6?", []string{"36", "40", "42", "48"}),
			GroundTruth: "C",
			Metadata:    map[string]any{"subject": "Math", "options": []string{"36", "40", "42", "48"}},
		},
	}
}
