package ingest

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"openrepowiki/internal/contextutil"
	"openrepowiki/internal/summarizer"
)

// ErrSummarizationExhausted is returned when every attempt of a RetryPolicy failed.
var ErrSummarizationExhausted = errors.New("summarization exhausted")

// Transform derives the input of attempt i (0-based) from the original text.
type Transform func(text string, attempt int) string

// Truncating keeps the first limit-attempt*reduction characters of the text.
// The input only ever shrinks between attempts.
func Truncating(limit, reduction int) Transform {
	return func(text string, attempt int) string {
		n := limit - attempt*reduction
		if n <= 0 {
			return ""
		}
		if n >= utf8.RuneCountInString(text) {
			return text
		}
		count := 0
		for i := range text {
			if count == n {
				return text[:i]
			}
			count++
		}
		return text
	}
}

// RetryPolicy bounds how often a summary is attempted and how the input is
// reduced between attempts.
type RetryPolicy struct {
	CharacterLimit int
	ReducePerRetry int
	MaxRetries     int
}

// Truncate returns the Truncating transform for the policy's limits.
func (p RetryPolicy) Truncate() Transform {
	return Truncating(p.CharacterLimit, p.ReducePerRetry)
}

// Run calls attempt with transform(text, i) for i = 0..MaxRetries-1 until one
// succeeds. After MaxRetries failures it returns ErrSummarizationExhausted
// wrapping the last error. A cancelled context stops the loop early.
func (p RetryPolicy) Run(
	ctx context.Context,
	text string,
	transform Transform,
	attempt func(ctx context.Context, input string) (*summarizer.Result, error),
) (*summarizer.Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var lastErr error
	for i := 0; i < p.MaxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		input := transform(text, i)
		result, err := attempt(ctx, input)
		if err == nil {
			return result, nil
		}

		lastErr = err
		logger.WarnContext(ctx, "summary attempt failed",
			"retry", i+1,
			"max_retries", p.MaxRetries,
			"input_chars", utf8.RuneCountInString(input),
			"error", err,
		)
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrSummarizationExhausted, p.MaxRetries, lastErr)
}
