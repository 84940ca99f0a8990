package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/stellarlinkco/agent-bench/internal/bench"
)

const rationaleSystem = `Answer the question. Respond with a single JSON object ` +
	`of the form {"answer": "<final answer>", "rationale": "<brief reasoning>"} ` +
	`and nothing else.`

// LLMAgent answers benchmark questions by prompting a model provider.
// In rationale mode the model is asked for a JSON object carrying both the
// final answer and its reasoning; if the model replies with anything else,
// the raw text is used as the answer.
type LLMAgent struct {
	provider  Provider
	system    string
	rationale bool
}

type LLMOption func(*LLMAgent)

func WithSystem(system string) LLMOption {
	return func(a *LLMAgent) {
		if a == nil {
			return
		}
		a.system = strings.TrimSpace(system)
	}
}

func WithRationale() LLMOption {
	return func(a *LLMAgent) {
		if a == nil {
			return
		}
		a.rationale = true
	}
}

func NewLLMAgent(p Provider, opts ...LLMOption) *LLMAgent {
	a := &LLMAgent{provider: p}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

func (a *LLMAgent) Answer(ctx context.Context, question string) (any, error) {
	if a == nil || a.provider == nil {
		return nil, errors.New("agent: nil provider")
	}

	system := a.system
	if a.rationale {
		system = rationaleSystem
	}

	text, err := a.provider.Complete(ctx, &Request{
		System: system,
		Prompt: question,
	})
	if err != nil {
		return nil, err
	}

	if !a.rationale {
		return text, nil
	}

	var resp bench.Response
	if err := ParseJSON(text, &resp); err != nil || strings.TrimSpace(resp.Answer) == "" {
		return text, nil
	}
	return resp, nil
}
