package summarizer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ParseResult extracts the result from a model reply. The reply may wrap the
// JSON object in prose or markdown fences; the outermost {...} span is used.
func ParseResult(reply string) (*Result, error) {
	raw := jsonObjectPattern.FindString(reply)
	if raw == "" {
		raw = strings.TrimSpace(reply)
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to parse summary output: %w", err)
	}

	result.Usage = strings.TrimSpace(result.Usage)
	result.Summary = strings.TrimSpace(result.Summary)
	if result.Usage == "" {
		return nil, fmt.Errorf("summary output is missing usage")
	}
	if result.Summary == "" {
		return nil, fmt.Errorf("summary output is missing summary")
	}
	return &result, nil
}
