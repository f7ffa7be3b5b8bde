package indexer

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

const (
	lexicalLengthScale = float32(10.0)
	maxLexicalScore    = float32(0.4)
	pathMatchBonus     = float32(0.1)

	// candidateFactor is how many vector candidates are fetched per requested hit.
	candidateFactor = 2
)

var lexicalStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {},
	"or": {}, "the": {}, "to": {}, "was": {}, "were": {}, "with": {},
}

// lexicalScore is the share of query terms found in a summary, scaled by summary
// length and capped at maxLexicalScore so it only reorders close vector scores.
// Terms found in the path segments add pathMatchBonus each.
func lexicalScore(query, text, summaryPath string) float32 {
	queryTokens := filterStopwords(tokenize(query))
	if len(queryTokens) == 0 {
		return 0
	}

	textTokens := tokenize(text)
	pathTokens := tokenize(summaryPath)
	if len(textTokens) == 0 && len(pathTokens) == 0 {
		return 0
	}

	freq := make(map[string]int, len(textTokens))
	for _, token := range textTokens {
		freq[token]++
	}
	pathSet := make(map[string]struct{}, len(pathTokens))
	for _, token := range pathTokens {
		pathSet[token] = struct{}{}
	}

	var rawMatches, pathMatches int
	for _, token := range queryTokens {
		rawMatches += freq[token]
		if _, ok := pathSet[token]; ok {
			pathMatches++
		}
	}

	score := (float32(rawMatches)/(1+float32(len(textTokens))))*lexicalLengthScale +
		float32(pathMatches)*pathMatchBonus

	return min(max(score, 0), maxLexicalScore)
}

// tokenize lowercases text and splits it on anything that is not a letter or
// digit, so "src/http_server.go" yields src, http, server, go.
func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	tokens := strings.Fields(builder.String())
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

func filterStopwords(tokens []string) []string {
	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, isStop := lexicalStopwords[token]; isStop {
			continue
		}
		result = append(result, token)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// rerank blends the lexical score into each hit and orders by the result.
// Ties keep vector order.
func rerank(query string, hits []Hit) {
	for i := range hits {
		h := &hits[i]
		h.LexicalScore = lexicalScore(query, h.Usage+" "+h.Summary, h.Path)
		h.Score = h.VectorScore + h.LexicalScore
	}
	slices.SortStableFunc(hits, func(a, b Hit) int {
		return cmp.Compare(b.Score, a.Score)
	})
}
