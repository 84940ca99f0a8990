package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
llm:
  default_provider: openai
  providers:
    openai:
      api_key: key-123
      model: gpt-4o-mini
evaluation:
  concurrency: 4
output:
  dir: out
storage:
  type: sqlite
  path: data/bench.db
server:
  addr: ":9090"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.DefaultProvider != "openai" {
		t.Fatalf("DefaultProvider: got %q want %q", cfg.LLM.DefaultProvider, "openai")
	}
	if cfg.LLM.Providers["openai"].Model != "gpt-4o-mini" {
		t.Fatalf("Model: got %q want %q", cfg.LLM.Providers["openai"].Model, "gpt-4o-mini")
	}
	if cfg.Evaluation.Concurrency != 4 {
		t.Fatalf("Concurrency: got %d want %d", cfg.Evaluation.Concurrency, 4)
	}
	if cfg.Output.Dir != "out" {
		t.Fatalf("Output.Dir: got %q want %q", cfg.Output.Dir, "out")
	}
	if cfg.Storage.Path != "data/bench.db" {
		t.Fatalf("Storage.Path: got %q want %q", cfg.Storage.Path, "data/bench.db")
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("Server.Addr: got %q want %q", cfg.Server.Addr, ":9090")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("Load: expected error for missing file")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("llm: ["), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load: expected error for invalid yaml")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Evaluation.Concurrency != 10 {
		t.Fatalf("Concurrency: got %d want %d", cfg.Evaluation.Concurrency, 10)
	}
	if cfg.Output.Dir != "result" {
		t.Fatalf("Output.Dir: got %q want %q", cfg.Output.Dir, "result")
	}
	if cfg.LLM.DefaultProvider != "claude" {
		t.Fatalf("DefaultProvider: got %q want %q", cfg.LLM.DefaultProvider, "claude")
	}
}

func TestLoad_EnvAPIKeyOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  providers:\n    openai:\n      api_key: file-key\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.LLM.Providers["openai"].APIKey; got != "env-key" {
		t.Fatalf("APIKey: got %q want %q", got, "env-key")
	}
}
