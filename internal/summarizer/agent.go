package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"openrepowiki/internal/contextutil"
	"openrepowiki/internal/llm"
	"openrepowiki/internal/metrics"
)

// Agent summarizes files and folders with a chat model.
type Agent struct {
	chat    llm.ChatClient
	metrics *metrics.Metrics
}

// NewAgent creates an Agent. m may be nil.
func NewAgent(chat llm.ChatClient, m *metrics.Metrics) *Agent {
	return &Agent{chat: chat, metrics: m}
}

// Summarize implements Summarizer.
func (a *Agent) Summarize(ctx context.Context, text string, meta Metadata) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()

	reply, err := a.chat.Chat(ctx, BuildPrompt(text, meta))
	if err != nil {
		a.metrics.ObserveSummarize(string(meta.Kind), "error", time.Since(start))
		return nil, fmt.Errorf("failed to summarize %s %q: %w", meta.Kind, meta.Path, err)
	}

	result, err := ParseResult(reply)
	if err != nil {
		a.metrics.ObserveSummarize(string(meta.Kind), "invalid", time.Since(start))
		logger.DebugContext(ctx, "unparseable summary reply", "path", meta.Path, "reply_len", len(reply))
		return nil, err
	}

	a.metrics.ObserveSummarize(string(meta.Kind), "ok", time.Since(start))
	logger.DebugContext(ctx, "summarized",
		"kind", meta.Kind,
		"path", meta.Path,
		"input_len", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
