package agent

import (
	"context"
	"strings"
)

// Request is a single-turn completion request. The harness only ever asks
// one question at a time, so there is no multi-message history.
type Request struct {
	System string
	Prompt string
}

// Provider produces a completion for a prompt against one model backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req *Request) (string, error)
}

type Registry struct {
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

func (r *Registry) Register(p Provider) {
	if r == nil || p == nil {
		return
	}
	name := strings.ToLower(strings.TrimSpace(p.Name()))
	if name == "" {
		return
	}
	if r.providers == nil {
		r.providers = make(map[string]Provider)
	}
	r.providers[name] = p
}

func (r *Registry) Get(name string) (Provider, bool) {
	if r == nil || r.providers == nil {
		return nil, false
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, false
	}
	p, ok := r.providers[name]
	return p, ok
}
