// Package dataset loads benchmark corpora into standardized records.
package dataset

import (
	"context"
	"sort"

	"github.com/stellarlinkco/agent-bench/internal/bench"
)

// Loader supplies an ordered sequence of records for one benchmark.
type Loader interface {
	Name() string
	Description() string
	Load(ctx context.Context) ([]bench.Record, error)
}

// ByName returns the loader for a known dataset name.
func ByName(name string, limit int) (Loader, bool) {
	switch name {
	case "gsm8k":
		return &GSM8KLoader{Limit: limit}, true
	case "hotpotqa":
		return &HotpotQALoader{Limit: limit}, true
	case "gaia":
		return &GAIALoader{Limit: limit}, true
	case "mmmu":
		return &MMMULoader{Limit: limit}, true
	default:
		return nil, false
	}
}

// Names lists the known dataset names in stable order.
func Names() []string {
	out := []string{"gsm8k", "hotpotqa", "gaia", "mmmu"}
	sort.Strings(out)
	return out
}
