// Package explain asks the configured model about the captured terminal history.
package explain

import (
	"context"
	"errors"
	"fmt"

	"github.com/hpkotak/huh/internal/prompt"
	"github.com/hpkotak/huh/internal/provider"
	"go.uber.org/zap"
)

// ErrEmptyReply is returned when the model answers with no text.
var ErrEmptyReply = errors.New("model returned an empty reply")

// Explainer sends one system+user exchange per call.
type Explainer struct {
	provider provider.Provider
	model    string
	logger   *zap.Logger
}

// New returns an Explainer. A nil logger disables logging.
func New(p provider.Provider, model string, logger *zap.Logger) *Explainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Explainer{provider: p, model: model, logger: logger}
}

// Explain sends history and the optional query to the model and returns its
// parsed reply. A blank query asks for an explanation of the last command.
func (e *Explainer) Explain(ctx context.Context, history, query string) (prompt.Explanation, error) {
	req := provider.ChatRequest{
		Model: e.model,
		Messages: []provider.Message{
			{Role: "system", Content: prompt.SystemPrompt(query)},
			{Role: "user", Content: prompt.UserMessage(history, query)},
		},
	}

	e.logger.Debug("sending request",
		zap.String("provider", e.provider.Name()),
		zap.String("model", e.model),
		zap.Bool("query", query != ""),
		zap.Int("history_chars", len([]rune(history))),
	)

	resp, err := e.provider.Chat(ctx, req)
	if err != nil {
		return prompt.Explanation{}, fmt.Errorf("asking %s: %w", e.provider.Name(), err)
	}

	e.logger.Debug("received reply",
		zap.String("finish_reason", resp.FinishReason),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)

	parsed := prompt.ParseExplanation(resp.Text)
	if parsed.Text == "" {
		return prompt.Explanation{}, ErrEmptyReply
	}
	if len(parsed.Commands) > 0 {
		e.logger.Debug("suggested commands", zap.Strings("commands", parsed.Commands))
	}
	return parsed, nil
}
