package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/hpkotak/huh/internal/capture"
	"github.com/hpkotak/huh/internal/config"
	"github.com/hpkotak/huh/internal/explain"
	"github.com/hpkotak/huh/internal/logging"
	"github.com/hpkotak/huh/internal/provider"
	"github.com/hpkotak/huh/internal/render"
	"github.com/hpkotak/huh/internal/safety"
	"github.com/hpkotak/huh/internal/shell"
	"github.com/hpkotak/huh/internal/termctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// selfName is dropped from the captured history when it is the last command.
const selfName = "huh"

var (
	queryFlag string
	debugFlag bool
)

// stopper is anything shown while the pipeline runs.
type stopper interface{ Stop() }

type noStatus struct{}

func (noStatus) Stop() {}

// Package-level function variables for testability.
// Tests override these to avoid real terminals, processes and providers.
var (
	loadConfig  = config.LoadOrDefault
	newProvider = func(cfg *config.Config) (provider.Provider, error) {
		return provider.NewFromConfig(buildConfig(cfg))
	}
	detectShell = func(names []string, logger *zap.Logger) shell.Shell {
		return shell.Detect(os.Getenv, names, shell.SystemTree(), logger)
	}
	capturePane = capture.Pane
	startStatus = func(label string) stopper {
		return render.StartStatus(os.Stderr, label)
	}
	renderReply = func(md string) string {
		return render.Markdown(md, render.Width(os.Stdout), render.IsTerminal(os.Stdout))
	}
	ioOut io.Writer = os.Stdout
	ioErr io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "huh",
	Short: "Understand the output of your latest terminal command",
	Long: `huh reads your recent terminal history and asks an LLM to explain the
output of the last command, or to answer a question about it.

Examples:
  huh
  huh --query "why is the port already in use?"
  huh --debug`,
	Args:              cobra.NoArgs,
	RunE:              runExplain,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

func init() {
	rootCmd.Flags().StringVar(&queryFlag, "query", "", "a question about what's on your terminal")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "print debug information")
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		render.Error(ioErr, err)
	}
	return err
}

func buildConfig(cfg *config.Config) provider.BuildConfig {
	return provider.BuildConfig{
		Name:         cfg.Provider,
		Model:        cfg.Model,
		CohereHost:   cfg.Cohere.Host,
		CohereAPIKey: os.Getenv("COHERE_API_KEY"),
		OpenAIHost:   cfg.OpenAI.Host,
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OllamaHost:   cfg.Ollama.Host,
		Timeout:      cfg.Timeout,
	}
}

func runExplain(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", config.Path(), err)
	}

	logger := logging.New(debugFlag, ioErr)
	defer func() { _ = logger.Sync() }()

	p, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}

	parent := context.Background()
	if cmd != nil && cmd.Context() != nil {
		parent = cmd.Context()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	// Debug lines share stderr with the spinner and would be repainted over.
	var status stopper = noStatus{}
	if !debugFlag {
		status = startStatus("Getting terminal context...")
	}
	defer status.Stop()

	sh := detectShell(cfg.Shells, logger)
	logger.Debug("retrieved shell information",
		zap.String("name", sh.Name),
		zap.String("path", sh.Path),
		zap.String("prompt", sh.Prompt),
	)

	raw := capturePane(capture.Options{
		ScrollbackLines: cfg.ScrollbackLines,
		ShellName:       sh.Name,
	}, logger)
	history := termctx.Build(raw.Text, sh.Prompt, termctx.Options{
		MaxChars:    cfg.MaxChars,
		MaxCommands: cfg.MaxCommands,
		Self:        selfName,
	})
	logger.Debug("retrieved terminal context",
		zap.String("source", string(raw.Source)),
		zap.String("context", history),
	)

	logger.Debug("sending request to LLM", zap.String("provider", p.Name()))
	reply, err := explain.New(p, cfg.Model, logger).Explain(ctx, history, queryFlag)
	status.Stop()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprint(ioOut, renderReply(reply.Text))
	for _, f := range safety.Review(reply.Commands) {
		render.Hint(ioOut, fmt.Sprintf("Careful: `%s` %s.", f.Command, f.Reason))
	}
	return nil
}
