package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider against any OpenAI-compatible
// Chat Completions endpoint.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAIProvider connected to the given host and model.
func NewOpenAI(host, model, apiKey string, timeout time.Duration) (*OpenAIProvider, error) {
	base := strings.TrimSpace(host)
	if base == "" {
		return nil, fmt.Errorf("openai host cannot be empty")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("parsing openai host URL: %w", err)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai api key is required (set OPENAI_API_KEY)")
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(base, "/")
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (o *OpenAIProvider) Name() string { return "openai" }

// Available checks if the endpoint is reachable and the configured model exists.
func (o *OpenAIProvider) Available(ctx context.Context) error {
	models, err := o.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("openai availability check failed: %s", describeOpenAIError(err))
	}

	for _, m := range models.Models {
		if m.ID == o.model {
			return nil
		}
	}
	return fmt.Errorf("model %q not found in OpenAI models list", o.model)
}

// Chat sends the conversation and returns the first choice's content.
func (o *OpenAIProvider) Chat(ctx context.Context, chatReq ChatRequest) (ChatResponse, error) {
	messages := make([]openai.ChatCompletionMessage, len(chatReq.Messages))
	for i, m := range chatReq.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    resolveModel(chatReq.Model, o.model),
		Messages: messages,
	})
	if err != nil {
		return ChatResponse{}, fmt.Errorf("openai chat failed: %s", describeOpenAIError(err))
	}
	if len(resp.Choices) == 0 {
		return ChatResponse{}, fmt.Errorf("empty response from model")
	}

	result := strings.TrimSpace(resp.Choices[0].Message.Content)
	if result == "" {
		return ChatResponse{}, fmt.Errorf("empty response from model")
	}

	usage := Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}

	return ChatResponse{
		Text:         result,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage:        usage,
	}, nil
}

// describeOpenAIError flattens the client's typed errors into one line.
func describeOpenAIError(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("status %d: %v", reqErr.HTTPStatusCode, reqErr.Err)
	}
	return err.Error()
}
