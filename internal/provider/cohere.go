package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/cohere-ai/cohere-go/v2/core"
	"github.com/cohere-ai/cohere-go/v2/option"
	"github.com/samber/lo"
)

// CohereProvider implements Provider using the Cohere v2 Chat API.
type CohereProvider struct {
	client *cohereclient.Client
	model  string
}

// NewCohere creates a CohereProvider connected to the given host and model.
func NewCohere(host, model, apiKey string, timeout time.Duration) (*CohereProvider, error) {
	base := strings.TrimSpace(host)
	if base == "" {
		return nil, fmt.Errorf("cohere host cannot be empty")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("parsing cohere host URL: %w", err)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("cohere api key is required (set COHERE_API_KEY)")
	}

	client := cohereclient.NewClient(
		option.WithBaseURL(strings.TrimRight(base, "/")),
		option.WithToken(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		// Failures are reported, not retried.
		option.WithMaxAttempts(1),
	)
	return &CohereProvider{client: client, model: model}, nil
}

func (c *CohereProvider) Name() string { return "cohere" }

// Available checks that the API key is accepted and the configured model exists.
func (c *CohereProvider) Available(ctx context.Context) error {
	_, err := c.client.Models.Get(ctx, c.model)
	if err == nil {
		return nil
	}
	if status, ok := cohereStatus(err); ok && status == http.StatusNotFound {
		return fmt.Errorf("model %q not found in Cohere", c.model)
	}
	return fmt.Errorf("cohere availability check failed: %w", err)
}

// Chat sends the conversation to Cohere and returns the first text reply.
func (c *CohereProvider) Chat(ctx context.Context, chatReq ChatRequest) (ChatResponse, error) {
	resp, err := c.client.V2.Chat(ctx, &cohere.V2ChatRequest{
		Model:    resolveModel(chatReq.Model, c.model),
		Messages: lo.Map(chatReq.Messages, func(m Message, _ int) *cohere.ChatMessageV2 { return cohereMessage(m) }),
	})
	if err != nil {
		if status, ok := cohereStatus(err); ok {
			return ChatResponse{}, fmt.Errorf("cohere chat failed (%d): %w", status, err)
		}
		return ChatResponse{}, fmt.Errorf("cohere chat: %w", err)
	}

	var result string
	if resp.Message != nil {
		for _, part := range resp.Message.Content {
			if part != nil && part.Text != nil {
				result = strings.TrimSpace(part.Text.Text)
				break
			}
		}
	}
	if result == "" {
		return ChatResponse{}, fmt.Errorf("empty response from model")
	}

	return ChatResponse{
		Text:         result,
		FinishReason: string(resp.FinishReason),
		Usage:        cohereUsage(resp.Usage),
	}, nil
}

func cohereMessage(m Message) *cohere.ChatMessageV2 {
	switch m.Role {
	case "system":
		return &cohere.ChatMessageV2{
			Role:   m.Role,
			System: &cohere.SystemMessage{Content: &cohere.SystemMessageContent{String: m.Content}},
		}
	case "assistant":
		return &cohere.ChatMessageV2{
			Role:      m.Role,
			Assistant: &cohere.AssistantMessage{Content: &cohere.AssistantMessageContent{String: m.Content}},
		}
	default:
		return &cohere.ChatMessageV2{
			Role: "user",
			User: &cohere.UserMessage{Content: &cohere.UserMessageContent{String: m.Content}},
		}
	}
}

// cohereUsage prefers the token counts the model saw and falls back to the
// billed units when those are absent.
func cohereUsage(u *cohere.Usage) Usage {
	if u == nil {
		return Usage{}
	}
	var in, out *float64
	if u.Tokens != nil {
		in, out = u.Tokens.InputTokens, u.Tokens.OutputTokens
	}
	if in == nil && out == nil && u.BilledUnits != nil {
		in, out = u.BilledUnits.InputTokens, u.BilledUnits.OutputTokens
	}

	usage := Usage{
		InputTokens:  int(lo.FromPtr(in)),
		OutputTokens: int(lo.FromPtr(out)),
	}
	usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	return usage
}

// cohereStatus extracts the HTTP status from an SDK error.
func cohereStatus(err error) (int, bool) {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}
