package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient sends chat completions through go-openai. It serves OpenAI and
// any API compatible with it, such as DeepSeek, selected by base URL.
type OpenAIClient struct {
	client *openai.Client
	model  string
	params Params
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint.
func NewOpenAIClient(baseURL, apiKey, model string, params Params) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = newHTTPClient()

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		params: params,
	}
}

// Chat implements ChatClient.
func (o *OpenAIClient) Chat(ctx context.Context, message string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		Temperature: o.params.Temperature,
		TopP:        o.params.TopP,
		MaxTokens:   o.params.MaxTokens,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	slog.Debug("Received chat completion",
		"model", o.model,
		"finish_reason", resp.Choices[0].FinishReason,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Choices[0].Message.Content, nil
}

// NewChatClient returns the ChatClient for a provider name.
func NewChatClient(provider, baseURL, apiKey, model string, params Params) (ChatClient, error) {
	switch provider {
	case ProviderLlamaCpp:
		return NewClient(baseURL, apiKey, model, params), nil
	case ProviderOpenAI, ProviderDeepSeek:
		return NewOpenAIClient(baseURL, apiKey, model, params), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", provider)
	}
}
