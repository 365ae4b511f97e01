package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reddigest/pkg/llm"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Reddit.UserAgent != "reddigest/1.0" {
		t.Errorf("user agent = %q", cfg.Reddit.UserAgent)
	}
	if cfg.LLM.OpenAI.Model != "gpt-4o" {
		t.Errorf("openai model = %q", cfg.LLM.OpenAI.Model)
	}
	if cfg.Budget.MaxTokens != 8000 || cfg.Budget.ReservedForResponse != 1024 {
		t.Errorf("budget = %+v", cfg.Budget)
	}
	if cfg.Storage.Backend != "fs" || cfg.Storage.OutputDir != "output" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Timezone != "America/New_York" {
		t.Errorf("timezone = %q", cfg.Timezone)
	}
	if cfg.Location() == nil {
		t.Error("Location() should never be nil")
	}
}

func TestLoadReadsFileAndFillsRest(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: claude
  claude:
    model: claude-3-haiku
budget:
  max_tokens: 4000
storage:
  output_dir: /tmp/digests
timezone: UTC
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Provider() != llm.ProviderClaude {
		t.Errorf("provider = %q", cfg.LLM.Provider)
	}
	if cfg.LLM.Claude.Model != "claude-3-haiku" {
		t.Errorf("claude model = %q", cfg.LLM.Claude.Model)
	}
	if cfg.Budget.MaxTokens != 4000 {
		t.Errorf("max tokens = %d", cfg.Budget.MaxTokens)
	}
	if cfg.Budget.ReservedForResponse != 1024 {
		t.Errorf("reserved default not applied: %d", cfg.Budget.ReservedForResponse)
	}
	if cfg.Storage.OutputDir != "/tmp/digests" {
		t.Errorf("output dir = %q", cfg.Storage.OutputDir)
	}
	if cfg.LLM.Ollama.URL != "http://localhost:11434/api/chat" {
		t.Errorf("ollama default not applied: %q", cfg.LLM.Ollama.URL)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: openai
`)
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("OLLAMA_MODEL", "llama3:8b")
	t.Setenv("BUDGET_MAX_TOKENS", "2000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Provider() != llm.ProviderOllama {
		t.Errorf("provider = %q, env override lost", cfg.LLM.Provider)
	}
	if cfg.LLM.Ollama.Model != "llama3:8b" {
		t.Errorf("ollama model = %q", cfg.LLM.Ollama.Model)
	}
	if cfg.Budget.MaxTokens != 2000 {
		t.Errorf("max tokens = %d", cfg.Budget.MaxTokens)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: grok
`)

	_, err := Load(path)
	if !errors.Is(err, llm.ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestLoadRejectsBadStorageBackend(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: gcs
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "storage backend") {
		t.Errorf("expected backend error, got %v", err)
	}
}

func TestLoadS3BackendRequiresBucket(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: s3
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for s3 backend without bucket")
	}

	path = writeConfig(t, `
storage:
  backend: s3
  s3_bucket: digests
`)
	if _, err := Load(path); err != nil {
		t.Errorf("bucket provided, Load should succeed: %v", err)
	}
}

func TestLoadRejectsBadBudget(t *testing.T) {
	path := writeConfig(t, `
budget:
  max_tokens: 500
  reserved_for_response: 500
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "reserved_for_response") {
		t.Errorf("expected budget error, got %v", err)
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	path := writeConfig(t, `
timezone: Mars/Olympus_Mons
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "timezone") {
		t.Errorf("expected timezone error, got %v", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "llm: [not: a mapping")

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestPlainValuesSkipSecretResolution(t *testing.T) {
	got, err := resolveSecret("sk-plain-key")
	if err != nil {
		t.Fatalf("resolveSecret: %v", err)
	}
	if got != "sk-plain-key" {
		t.Errorf("plain value changed: %q", got)
	}
}
