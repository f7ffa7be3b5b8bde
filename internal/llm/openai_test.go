package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIClient_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want Bearer sk-test", got)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req["model"] != "deepseek-chat" {
			t.Errorf("model = %v, want deepseek-chat", req["model"])
		}
		if req["max_tokens"] != float64(1024) {
			t.Errorf("max_tokens = %v, want 1024", req["max_tokens"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "deepseek-chat",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"usage\": \"x\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 3, "completion_tokens": 4, "total_tokens": 7}
		}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "sk-test", "deepseek-chat", Params{Temperature: 1, TopP: 0.95, MaxTokens: 1024})
	reply, err := client.Chat(context.Background(), "summarize")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply != `{"usage": "x"}` {
		t.Errorf("Chat() = %q", reply)
	}
}

func TestOpenAIClient_Chat_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "bad", "gpt-4o-mini", DefaultParams())
	if _, err := client.Chat(context.Background(), "summarize"); err == nil {
		t.Error("Chat() expected error, got nil")
	}
}

func TestNewChatClient(t *testing.T) {
	tests := []struct {
		provider string
		wantType string
		wantErr  bool
	}{
		{provider: ProviderLlamaCpp, wantType: "*llm.Client"},
		{provider: ProviderOpenAI, wantType: "*llm.OpenAIClient"},
		{provider: ProviderDeepSeek, wantType: "*llm.OpenAIClient"},
		{provider: "anthropic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			client, err := NewChatClient(tt.provider, "http://localhost:1", "key", "model", DefaultParams())
			if tt.wantErr {
				if err == nil {
					t.Error("NewChatClient() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewChatClient() error = %v", err)
			}
			switch client.(type) {
			case *Client:
				if tt.wantType != "*llm.Client" {
					t.Errorf("NewChatClient() type = *llm.Client, want %s", tt.wantType)
				}
			case *OpenAIClient:
				if tt.wantType != "*llm.OpenAIClient" {
					t.Errorf("NewChatClient() type = *llm.OpenAIClient, want %s", tt.wantType)
				}
			default:
				t.Errorf("NewChatClient() unexpected type %T", client)
			}
		})
	}
}
