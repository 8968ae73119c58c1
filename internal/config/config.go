// Package config manages the huh configuration file at ~/.huh/config.yaml.
// The file is optional: a missing file means Default() is used.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("config file not found")

const (
	DefaultProvider        = "cohere"
	DefaultModel           = "command-r-plus-08-2024"
	DefaultMaxChars        = 10000
	DefaultMaxCommands     = 3
	DefaultScrollbackLines = 1000
	DefaultTimeout         = 60 * time.Second

	DefaultCohereHost = "https://api.cohere.com"
	DefaultOpenAIHost = "https://api.openai.com/v1"
	DefaultOllamaHost = "http://localhost:11434"
)

// DefaultShells is the set of shell names the identifier recognises.
var DefaultShells = []string{"bash", "powershell", "zsh", "cmd", "sh", "csh"}

// Providers lists the supported provider names.
var Providers = []string{"cohere", "openai", "ollama"}

type Config struct {
	Provider        string        `yaml:"provider"`
	Model           string        `yaml:"model"`
	MaxChars        int           `yaml:"max_chars"`
	MaxCommands     int           `yaml:"max_commands"`
	ScrollbackLines int           `yaml:"scrollback_lines"`
	Timeout         time.Duration `yaml:"timeout"`
	Shells          []string      `yaml:"shells"`
	Cohere          Endpoint      `yaml:"cohere"`
	OpenAI          Endpoint      `yaml:"openai"`
	Ollama          Endpoint      `yaml:"ollama"`
}

// Endpoint is the base URL of an LLM backend.
type Endpoint struct {
	Host string `yaml:"host"`
}

// Dir returns the config directory path (~/.huh).
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".huh")
}

// Path returns the config file path (~/.huh/config.yaml).
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Exists checks if the config file exists.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Load reads and parses the config file. Returns ErrNotFound if it doesn't exist.
func Load() (*Config, error) {
	return loadFrom(Path())
}

// LoadOrDefault is Load with a missing file mapped to Default().
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	return cfg, err
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Unset keys keep their defaults.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Shells = NormalizeShells(cfg.Shells)
	return cfg, nil
}

// NormalizeShells lower-cases and trims shell names, dropping blanks and
// duplicates. Names are matched against lower-cased process names.
func NormalizeShells(names []string) []string {
	return lo.Uniq(lo.Compact(lo.Map(names, func(s string, _ int) string {
		return strings.ToLower(strings.TrimSpace(s))
	})))
}

// Save writes the config to disk, creating the directory if needed.
func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := marshalConfig(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(Path(), data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func marshalConfig(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		Provider:        DefaultProvider,
		Model:           DefaultModel,
		MaxChars:        DefaultMaxChars,
		MaxCommands:     DefaultMaxCommands,
		ScrollbackLines: DefaultScrollbackLines,
		Timeout:         DefaultTimeout,
		Shells:          append([]string(nil), DefaultShells...),
		Cohere:          Endpoint{Host: DefaultCohereHost},
		OpenAI:          Endpoint{Host: DefaultOpenAIHost},
		Ollama:          Endpoint{Host: DefaultOllamaHost},
	}
}

// Validate checks that the config can drive a run.
func (c *Config) Validate() error {
	if !lo.Contains(Providers, c.Provider) {
		return fmt.Errorf("invalid provider %q (want one of %s)", c.Provider, strings.Join(Providers, ", "))
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxChars <= 0 {
		return fmt.Errorf("max_chars must be positive, got %d", c.MaxChars)
	}
	if c.MaxCommands < 0 {
		return fmt.Errorf("max_commands cannot be negative, got %d", c.MaxCommands)
	}
	if c.ScrollbackLines < 0 {
		return fmt.Errorf("scrollback_lines cannot be negative, got %d", c.ScrollbackLines)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if len(c.Shells) == 0 {
		return fmt.Errorf("shells cannot be empty")
	}

	hosts := map[string]string{
		"cohere.host": c.Cohere.Host,
		"openai.host": c.OpenAI.Host,
		"ollama.host": c.Ollama.Host,
	}
	for key, host := range hosts {
		if _, err := url.ParseRequestURI(host); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, host, err)
		}
	}
	return nil
}
