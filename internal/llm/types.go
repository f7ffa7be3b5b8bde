package llm

import (
	"context"
	"net/http"
)

// Provider names accepted by NewChatClient.
const (
	ProviderLlamaCpp = "llamacpp"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

// ChatClient sends a single-turn prompt to a text generation backend.
type ChatClient interface {
	Chat(ctx context.Context, message string) (string, error)
}

// Params holds generation parameters applied to every request.
// Zero values are left out of the request so the backend default applies.
type Params struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// DefaultParams mirrors the generation settings used for summaries.
func DefaultParams() Params {
	return Params{Temperature: 1.0, TopP: 0.95, MaxTokens: 8192}
}

// newHTTPClient returns the client shared by the llama.cpp endpoints. Summaries of
// large files can take minutes, so there is no overall timeout; callers bound
// requests through their context.
func newHTTPClient() *http.Client {
	return &http.Client{Transport: http.DefaultTransport}
}
