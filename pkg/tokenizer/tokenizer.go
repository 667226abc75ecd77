// Package tokenizer estimates prompt sizes for the chat assistant. The numbers
// are approximations; no provider tokenizer is consulted.
package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended to text cut by Truncate.
const Ellipsis = "..."

// EstimateTokens blends a word-based (1.3 per word) and a character-based
// (4 runes per token) estimate.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := float64(len(strings.Fields(text))) * 1.3
	runes := float64(utf8.RuneCountInString(text)) / 4
	n := int((words + runes) / 2)
	if n == 0 {
		n = 1
	}
	return n
}

// Truncate shortens text to roughly budget tokens, cutting at a word boundary
// when one is close enough. A non-positive budget leaves text untouched.
func Truncate(text string, budget int) string {
	if budget <= 0 || EstimateTokens(text) <= budget {
		return text
	}
	runes := []rune(text)
	limit := budget * 4
	if limit >= len(runes) {
		return text
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexAny(cut, " \n\t"); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " \n\t.,;:") + Ellipsis
}
