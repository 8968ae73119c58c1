package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	// Use a temp dir to avoid touching the real config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := Default()
	cfg.Provider = "ollama"
	cfg.Model = "llama3.2:latest"
	cfg.MaxChars = 4000
	cfg.Timeout = 90 * time.Second

	data, err := marshalConfig(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := loadFrom(configPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Provider != cfg.Provider {
		t.Errorf("Provider = %q, want %q", loaded.Provider, cfg.Provider)
	}
	if loaded.Model != cfg.Model {
		t.Errorf("Model = %q, want %q", loaded.Model, cfg.Model)
	}
	if loaded.MaxChars != cfg.MaxChars {
		t.Errorf("MaxChars = %d, want %d", loaded.MaxChars, cfg.MaxChars)
	}
	if loaded.Timeout != cfg.Timeout {
		t.Errorf("Timeout = %s, want %s", loaded.Timeout, cfg.Timeout)
	}
	if loaded.Ollama.Host != cfg.Ollama.Host {
		t.Errorf("Ollama.Host = %q, want %q", loaded.Ollama.Host, cfg.Ollama.Host)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	body := "provider: openai\nmodel: gpt-4o-mini\ntimeout: 15s\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := loadFrom(configPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", loaded.Provider, "openai")
	}
	if loaded.Timeout != 15*time.Second {
		t.Errorf("Timeout = %s, want 15s", loaded.Timeout)
	}
	if loaded.MaxChars != DefaultMaxChars {
		t.Errorf("MaxChars = %d, want default %d", loaded.MaxChars, DefaultMaxChars)
	}
	if len(loaded.Shells) != len(DefaultShells) {
		t.Errorf("Shells = %v, want defaults %v", loaded.Shells, DefaultShells)
	}
}

func TestLoadNormalizesShells(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	body := "shells: [Bash, \" ZSH \", bash, \"\", PowerShell]\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := loadFrom(configPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"bash", "zsh", "powershell"}
	if !reflect.DeepEqual(loaded.Shells, want) {
		t.Errorf("Shells = %q, want %q", loaded.Shells, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := loadFrom("/nonexistent/path/config.yaml")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("provider: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := loadFrom(configPath)
	if err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("expected parsing error, got %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault()
	if err != nil {
		t.Fatalf("LoadOrDefault() unexpected error: %v", err)
	}
	if cfg.Provider != DefaultProvider || cfg.Model != DefaultModel {
		t.Errorf("LoadOrDefault() = %+v, want defaults", cfg)
	}
}

func TestSaveAndExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if Exists() {
		t.Fatal("Exists() = true before Save")
	}
	if err := Save(Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Cohere.Host != DefaultCohereHost {
		t.Errorf("Cohere.Host = %q, want %q", loaded.Cohere.Host, DefaultCohereHost)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"openai provider", func(c *Config) { c.Provider = "openai" }, ""},
		{"unknown provider", func(c *Config) { c.Provider = "anthropic" }, "invalid provider"},
		{"empty model", func(c *Config) { c.Model = "  " }, "model cannot be empty"},
		{"zero budget", func(c *Config) { c.MaxChars = 0 }, "max_chars"},
		{"negative commands", func(c *Config) { c.MaxCommands = -1 }, "max_commands"},
		{"negative scrollback", func(c *Config) { c.ScrollbackLines = -5 }, "scrollback_lines"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
		{"no shells", func(c *Config) { c.Shells = nil }, "shells"},
		{"bad host", func(c *Config) { c.Cohere.Host = "://broken" }, "invalid cohere.host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}
