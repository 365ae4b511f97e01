package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"reddigest/pkg/llm"
	"reddigest/pkg/reddit"
)

type RedditConfig struct {
	ClientID     string `yaml:"client_id" env:"REDDIT_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"REDDIT_CLIENT_SECRET"`
	UserAgent    string `yaml:"user_agent" env:"REDDIT_USER_AGENT"`
}

type OpenAIConfig struct {
	APIKey      string `yaml:"api_key" env:"OPENAI_API_KEY"`
	Model       string `yaml:"model" env:"OPENAI_MODEL"`
	ServiceTier string `yaml:"service_tier" env:"OPENAI_SERVICE_TIER"`
}

type ClaudeConfig struct {
	APIKey string `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
	Model  string `yaml:"model" env:"ANTHROPIC_MODEL"`
}

type OllamaConfig struct {
	URL   string `yaml:"url" env:"OLLAMA_URL"`
	Model string `yaml:"model" env:"OLLAMA_MODEL"`
}

type LLMConfig struct {
	Provider       string       `yaml:"provider" env:"LLM_PROVIDER"`
	TimeoutSeconds int          `yaml:"timeout_seconds" env:"LLM_TIMEOUT_SECONDS"`
	MaxAttempts    int          `yaml:"max_attempts" env:"LLM_MAX_ATTEMPTS"`
	OpenAI         OpenAIConfig `yaml:"openai"`
	Claude         ClaudeConfig `yaml:"claude"`
	Ollama         OllamaConfig `yaml:"ollama"`
}

type BudgetConfig struct {
	MaxTokens           int `yaml:"max_tokens" env:"BUDGET_MAX_TOKENS"`
	ReservedForResponse int `yaml:"reserved_for_response" env:"BUDGET_RESERVED_TOKENS"`
}

type StorageConfig struct {
	Backend   string `yaml:"backend" env:"STORAGE_BACKEND"`
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR"`
	S3Bucket  string `yaml:"s3_bucket" env:"S3_BUCKET"`
	S3Region  string `yaml:"s3_region" env:"AWS_REGION"`
	RedisURL  string `yaml:"redis_url" env:"REDIS_URL"`
}

// Config holds all application configuration. Values come from the
// YAML file, then environment overrides, then op:// resolution.
type Config struct {
	Reddit      RedditConfig  `yaml:"reddit"`
	LLM         LLMConfig     `yaml:"llm"`
	Budget      BudgetConfig  `yaml:"budget"`
	Storage     StorageConfig `yaml:"storage"`
	DatabaseURL string        `yaml:"database_url" env:"DATABASE_URL"`
	Timezone    string        `yaml:"timezone" env:"TIMEZONE"`

	loc *time.Location
}

// DefaultPath returns the config file path from the environment or the
// working-directory default.
func DefaultPath() string {
	if path := os.Getenv("REDDIGEST_CONFIG"); path != "" {
		return path
	}
	return "./config.yaml"
}

// Load reads the YAML file at path (missing file means defaults only),
// applies defaults, environment overrides and 1Password resolution, and
// validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	applyDefaults(cfg)

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment overrides: %w", err)
	}

	if err := resolveSecrets(cfg); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Reddit.UserAgent == "" {
		cfg.Reddit.UserAgent = "reddigest/1.0"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = string(llm.ProviderOpenAI)
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 60
	}
	if cfg.LLM.MaxAttempts == 0 {
		cfg.LLM.MaxAttempts = 3
	}
	if cfg.LLM.OpenAI.Model == "" {
		cfg.LLM.OpenAI.Model = "gpt-4o"
	}
	if cfg.LLM.Claude.Model == "" {
		cfg.LLM.Claude.Model = "claude-sonnet-4-5-20250929"
	}
	if cfg.LLM.Ollama.URL == "" {
		cfg.LLM.Ollama.URL = "http://localhost:11434/api/chat"
	}
	if cfg.LLM.Ollama.Model == "" {
		cfg.LLM.Ollama.Model = "gemma3:12b"
	}
	if cfg.Budget.MaxTokens == 0 {
		cfg.Budget.MaxTokens = 8000
	}
	if cfg.Budget.ReservedForResponse == 0 {
		cfg.Budget.ReservedForResponse = 1024
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "fs"
	}
	if cfg.Storage.OutputDir == "" {
		cfg.Storage.OutputDir = "output"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "America/New_York"
	}
}

func validate(cfg *Config) error {
	if _, err := llm.ParseProvider(cfg.LLM.Provider); err != nil {
		return err
	}

	switch cfg.Storage.Backend {
	case "fs", "s3", "redis":
	default:
		return fmt.Errorf("storage backend must be fs, s3 or redis, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == "s3" && cfg.Storage.S3Bucket == "" {
		return fmt.Errorf("s3 storage requires s3_bucket")
	}
	if cfg.Storage.Backend == "redis" && cfg.Storage.RedisURL == "" {
		return fmt.Errorf("redis storage requires redis_url")
	}

	if cfg.Budget.MaxTokens <= 0 {
		return fmt.Errorf("budget max_tokens must be positive, got %d", cfg.Budget.MaxTokens)
	}
	if cfg.Budget.ReservedForResponse < 0 || cfg.Budget.ReservedForResponse >= cfg.Budget.MaxTokens {
		return fmt.Errorf("reserved_for_response must be in [0, max_tokens), got %d", cfg.Budget.ReservedForResponse)
	}

	if cfg.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm timeout_seconds must be positive, got %d", cfg.LLM.TimeoutSeconds)
	}
	if cfg.LLM.MaxAttempts <= 0 {
		return fmt.Errorf("llm max_attempts must be positive, got %d", cfg.LLM.MaxAttempts)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.loc = loc

	return nil
}

// Location returns the run timezone validated during Load.
func (c *Config) Location() *time.Location {
	if c.loc != nil {
		return c.loc
	}
	return time.Local
}

// Provider returns the validated default provider.
func (c *Config) Provider() llm.Provider {
	p, err := llm.ParseProvider(c.LLM.Provider)
	if err != nil {
		return llm.ProviderOpenAI
	}
	return p
}

// LLMClientConfig maps the file layout onto the provider factory.
func (c *Config) LLMClientConfig() llm.Config {
	return llm.Config{
		OpenAIKey:         c.LLM.OpenAI.APIKey,
		OpenAIModel:       c.LLM.OpenAI.Model,
		OpenAIServiceTier: c.LLM.OpenAI.ServiceTier,
		AnthropicKey:      c.LLM.Claude.APIKey,
		AnthropicModel:    c.LLM.Claude.Model,
		OllamaURL:         c.LLM.Ollama.URL,
		OllamaModel:       c.LLM.Ollama.Model,
		MaxResponseTokens: c.Budget.ReservedForResponse,
	}
}

// RedditClientConfig maps the file layout onto the source client.
func (c *Config) RedditClientConfig() reddit.Config {
	return reddit.Config{
		ClientID:     c.Reddit.ClientID,
		ClientSecret: c.Reddit.ClientSecret,
		UserAgent:    c.Reddit.UserAgent,
	}
}
