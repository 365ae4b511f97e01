package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
	ProviderOllama Provider = "ollama"
)

// ErrUnknownProvider is returned before any network I/O when a provider
// name does not match a configured backend.
var ErrUnknownProvider = errors.New("unknown provider")

func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderClaude:
		return ProviderClaude, nil
	case ProviderOllama:
		return ProviderOllama, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
}

const systemPrompt = `You are a careful analyst of online discussions. Summarize accurately, stay neutral, and cite sources using only the numbered markers you are given. Never invent markers.`

// CompletionClient turns a prompt into completion text. Model and
// provider options are bound at construction.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
	Model() string
}

type Config struct {
	OpenAIKey         string
	OpenAIModel       string
	OpenAIServiceTier string
	AnthropicKey      string
	AnthropicModel    string
	OllamaURL         string
	OllamaModel       string
	MaxResponseTokens int
}

func NewClient(provider Provider, cfg Config) (CompletionClient, error) {
	switch provider {
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai: missing API key")
		}
		return NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIServiceTier), nil
	case ProviderClaude:
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("claude: missing API key")
		}
		return NewAnthropicClient(cfg.AnthropicKey, cfg.AnthropicModel, cfg.MaxResponseTokens), nil
	case ProviderOllama:
		return NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

// cleanResponse strips the Markdown code fences some models wrap their
// output in.
func cleanResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```markdown")
	content = strings.TrimPrefix(content, "```text")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
