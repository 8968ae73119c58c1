package cmd

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hpkotak/huh/internal/config"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a configuration value",
	Long: `Update a configuration value. Supported keys:
  provider          LLM provider (cohere/openai/ollama)
  model             Model name (e.g., command-r-plus-08-2024)
  max_chars         Character budget for terminal history
  max_commands      Number of recent commands sent (0 = all)
  scrollback_lines  Lines read from the multiplexer (0 = all)
  timeout           LLM request timeout (e.g., 60s)
  shells            Comma-separated shell names to recognise
  cohere.host       Cohere API base URL
  openai.host       OpenAI-compatible API base URL
  ollama.host       Ollama server URL`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], strings.TrimSpace(args[1])

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	switch key {
	case "provider":
		cfg.Provider = strings.ToLower(value)
		applyProviderDefaults(cfg)
	case "model":
		if value == "" {
			return fmt.Errorf("model cannot be empty")
		}
		cfg.Model = value
	case "max_chars":
		if cfg.MaxChars, err = parseInt(key, value); err != nil {
			return err
		}
	case "max_commands":
		if cfg.MaxCommands, err = parseInt(key, value); err != nil {
			return err
		}
	case "scrollback_lines":
		if cfg.ScrollbackLines, err = parseInt(key, value); err != nil {
			return err
		}
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
		cfg.Timeout = d
	case "shells":
		cfg.Shells = config.NormalizeShells(strings.Split(value, ","))
	case "cohere.host", "openai.host", "ollama.host":
		if _, err := url.ParseRequestURI(value); err != nil {
			return fmt.Errorf("invalid URL %q: %w", value, err)
		}
		hostField(cfg, key).Host = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(ioOut, "Set %s = %s\n", key, value)
	return nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", key, value)
	}
	return n, nil
}

func hostField(cfg *config.Config, key string) *config.Endpoint {
	switch key {
	case "cohere.host":
		return &cfg.Cohere
	case "openai.host":
		return &cfg.OpenAI
	default:
		return &cfg.Ollama
	}
}

// applyProviderDefaults restores the selected backend's host and, when
// switching away from the default backend's model, resets the model to a
// sensible choice for the new provider.
func applyProviderDefaults(cfg *config.Config) {
	defaults := config.Default()
	switch cfg.Provider {
	case "cohere":
		if strings.TrimSpace(cfg.Cohere.Host) == "" {
			cfg.Cohere.Host = defaults.Cohere.Host
		}
	case "openai":
		if strings.TrimSpace(cfg.OpenAI.Host) == "" {
			cfg.OpenAI.Host = defaults.OpenAI.Host
		}
	case "ollama":
		if strings.TrimSpace(cfg.Ollama.Host) == "" {
			cfg.Ollama.Host = defaults.Ollama.Host
		}
	}
	if model, ok := providerModels[cfg.Provider]; ok && lo.Contains(lo.Values(providerModels), cfg.Model) {
		cfg.Model = model
	}
}

// providerModels are the models picked when switching provider from another
// provider's default model.
var providerModels = map[string]string{
	"cohere": config.DefaultModel,
	"openai": "gpt-4o-mini",
	"ollama": "llama3.2:latest",
}
