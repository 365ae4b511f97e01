package config

import (
	"fmt"
	"os/exec"
	"strings"
)

// resolveSecrets replaces op:// references in secret-bearing fields
// with the values read through the 1Password CLI. Plain values pass
// through untouched, so the CLI is only required when references are
// actually used.
func resolveSecrets(cfg *Config) error {
	fields := []*string{
		&cfg.Reddit.ClientID,
		&cfg.Reddit.ClientSecret,
		&cfg.LLM.OpenAI.APIKey,
		&cfg.LLM.Claude.APIKey,
		&cfg.Storage.RedisURL,
		&cfg.DatabaseURL,
	}

	for _, field := range fields {
		resolved, err := resolveSecret(*field)
		if err != nil {
			return err
		}
		*field = resolved
	}
	return nil
}

func resolveSecret(value string) (string, error) {
	if !strings.HasPrefix(value, "op://") {
		return value, nil
	}

	out, err := exec.Command("op", "read", value).Output()
	if err != nil {
		return "", fmt.Errorf("resolve %s via op read: %w", value, err)
	}
	return strings.TrimSpace(string(out)), nil
}
