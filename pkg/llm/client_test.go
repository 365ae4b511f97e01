package llm

import (
	"errors"
	"testing"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Provider
		wantErr bool
	}{
		{name: "openai", input: "openai", want: ProviderOpenAI},
		{name: "claude", input: "claude", want: ProviderClaude},
		{name: "ollama", input: "ollama", want: ProviderOllama},
		{name: "mixed case", input: "Claude", want: ProviderClaude},
		{name: "surrounding whitespace", input: " openai ", want: ProviderOpenAI},
		{name: "unknown", input: "gemini", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownProvider) {
					t.Fatalf("expected ErrUnknownProvider, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient(Provider("gemini"), Config{})

	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestNewClientMissingKey(t *testing.T) {
	if _, err := NewClient(ProviderOpenAI, Config{}); err == nil {
		t.Error("expected error for missing openai key")
	}
	if _, err := NewClient(ProviderClaude, Config{}); err == nil {
		t.Error("expected error for missing anthropic key")
	}
}

func TestNewClientOllamaNeedsNoKey(t *testing.T) {
	client, err := NewClient(ProviderOllama, Config{OllamaModel: "gemma3:12b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Name() != "ollama" {
		t.Errorf("got name %q, want ollama", client.Name())
	}
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "The discussion centered on generics [1].",
			want:  "The discussion centered on generics [1].",
		},
		{
			name:  "strips markdown fenced block",
			input: "```markdown\nSummary text here.\n```",
			want:  "Summary text here.",
		},
		{
			name:  "strips plain fenced block",
			input: "```\nSummary text here.\n```",
			want:  "Summary text here.",
		},
		{
			name:  "trims surrounding whitespace",
			input: "  Summary text here.  ",
			want:  "Summary text here.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanResponse(tt.input)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
