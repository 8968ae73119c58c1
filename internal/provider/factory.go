package provider

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout bounds a single provider HTTP exchange when none is configured.
const DefaultTimeout = 60 * time.Second

// BuildConfig contains provider-specific runtime settings used by the factory.
type BuildConfig struct {
	Name         string
	Model        string
	CohereHost   string
	CohereAPIKey string
	OpenAIHost   string
	OpenAIAPIKey string
	OllamaHost   string
	Timeout      time.Duration
}

// NewFromConfig builds the configured provider implementation.
func NewFromConfig(cfg BuildConfig) (Provider, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "cohere":
		return NewCohere(cfg.CohereHost, cfg.Model, cfg.CohereAPIKey, timeout)
	case "openai":
		return NewOpenAI(cfg.OpenAIHost, cfg.Model, cfg.OpenAIAPIKey, timeout)
	case "ollama":
		return NewOllama(cfg.OllamaHost, cfg.Model, timeout)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Name)
	}
}
