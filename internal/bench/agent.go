package bench

import "context"

// Agent answers a single benchmark question. The returned value may be a
// plain string (treated as the answer), a Response, a map with "answer" and
// "rationale" keys, or anything else, which is stringified. A returned error
// is captured per record and converted into a scored error result; it never
// aborts the run.
type Agent interface {
	Answer(ctx context.Context, question string) (any, error)
}

// AgentFunc adapts a plain function to the Agent interface.
type AgentFunc func(ctx context.Context, question string) (any, error)

// Answer calls f.
func (f AgentFunc) Answer(ctx context.Context, question string) (any, error) {
	return f(ctx, question)
}
