package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaProvider implements Provider using a local Ollama instance.
type OllamaProvider struct {
	client *api.Client
	model  string
}

// NewOllama creates an OllamaProvider connected to the given host and model.
func NewOllama(host, model string, timeout time.Duration) (*OllamaProvider, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama host URL: %w", err)
	}
	client := api.NewClient(base, &http.Client{Timeout: timeout})
	return &OllamaProvider{client: client, model: model}, nil
}

func (o *OllamaProvider) Name() string { return "ollama" }

// Available checks if Ollama is reachable and the configured model exists.
func (o *OllamaProvider) Available(ctx context.Context) error {
	models, err := o.client.List(ctx)
	if err != nil {
		return fmt.Errorf("cannot reach Ollama at configured host: %w", err)
	}

	for _, m := range models.Models {
		if m.Name == o.model {
			return nil
		}
	}
	return fmt.Errorf("model %q not found in Ollama", o.model)
}

// Chat sends the conversation to Ollama without streaming and returns the
// assistant response.
func (o *OllamaProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	apiMessages := make([]api.Message, len(req.Messages))
	for i, m := range req.Messages {
		apiMessages[i] = api.Message{Role: m.Role, Content: m.Content}
	}

	stream := false
	ollamaReq := &api.ChatRequest{
		Model:    resolveModel(req.Model, o.model),
		Messages: apiMessages,
		Stream:   &stream,
	}

	var finalResp api.ChatResponse
	err := o.client.Chat(ctx, ollamaReq, func(resp api.ChatResponse) error {
		finalResp = resp
		return nil
	})
	if err != nil {
		return ChatResponse{}, fmt.Errorf("ollama chat: %w", err)
	}

	result := strings.TrimSpace(finalResp.Message.Content)
	if result == "" {
		return ChatResponse{}, fmt.Errorf("empty response from model")
	}

	usage := Usage{
		InputTokens:  finalResp.PromptEvalCount,
		OutputTokens: finalResp.EvalCount,
	}
	usage.TotalTokens = usage.InputTokens + usage.OutputTokens

	return ChatResponse{
		Text:         result,
		FinishReason: finalResp.DoneReason,
		Usage:        usage,
	}, nil
}
