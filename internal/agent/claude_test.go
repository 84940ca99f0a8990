package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func claudeMessageResponse(text string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-test",
		"stop_reason": "end_turn",
		"content": []map[string]any{{
			"type": "text",
			"text": text,
		}},
		"usage": map[string]any{
			"input_tokens":  3,
			"output_tokens": 2,
		},
	}
}

func newTestClaudeProvider(baseURL string) *ClaudeProvider {
	p := NewClaudeProvider("test-key", baseURL, "claude-test")
	p.retryBase = time.Millisecond
	return p
}

func TestClaudeProvider_Complete(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
			System []struct {
				Text string `json:"text"`
			} `json:"system"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Model != "claude-test" {
			t.Errorf("model: got %q", body.Model)
		}
		if len(body.System) != 1 || body.System[0].Text != "Answer briefly." {
			t.Errorf("system: %#v", body.System)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(claudeMessageResponse("Paris"))
	}))
	defer srv.Close()

	p := newTestClaudeProvider(srv.URL)
	got, err := p.Complete(context.Background(), &Request{
		System: "Answer briefly.",
		Prompt: "Capital of France?",
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Paris" {
		t.Fatalf("Complete: got %q want %q", got, "Paris")
	}
}

func TestClaudeProvider_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(claudeMessageResponse("ok"))
	}))
	defer srv.Close()

	p := newTestClaudeProvider(srv.URL)
	got, err := p.Complete(context.Background(), &Request{Prompt: "q"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "ok" {
		t.Fatalf("Complete: got %q", got)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("calls: got %d want %d", n, 2)
	}
}

func TestClaudeProvider_NoRetryOnClientError(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer srv.Close()

	p := newTestClaudeProvider(srv.URL)
	if _, err := p.Complete(context.Background(), &Request{Prompt: "q"}); err == nil {
		t.Fatalf("Complete: expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("calls: got %d want %d", n, 1)
	}
}

func TestClaudeProvider_MissingAuth(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "")

	p := NewClaudeProvider("", "", "")
	if _, err := p.Complete(context.Background(), &Request{Prompt: "q"}); err == nil {
		t.Fatalf("Complete: expected auth error")
	}
}

func TestSDKBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"http://example.com", "http://example.com"},
		{"http://example.com/", "http://example.com"},
		{"http://example.com/v1", "http://example.com"},
		{"http://example.com/v1/", "http://example.com"},
	}
	for _, tt := range tests {
		if got := sdkBaseURL(tt.in); got != tt.want {
			t.Fatalf("sdkBaseURL(%q): got %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestRetryBackoff(t *testing.T) {
	t.Parallel()

	base := 100 * time.Millisecond
	if got := retryBackoff(base, 0); got != base {
		t.Fatalf("attempt 0: got %v", got)
	}
	if got := retryBackoff(base, 2); got != 4*base {
		t.Fatalf("attempt 2: got %v", got)
	}
	if got := retryBackoff(0, 3); got != 0 {
		t.Fatalf("zero base: got %v", got)
	}
	if got := retryBackoff(base, -1); got != 0 {
		t.Fatalf("negative attempt: got %v", got)
	}
}
