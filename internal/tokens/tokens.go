// Package tokens approximates the provider tokenizer for budget checks.
// Counts are an upper-bound estimate (one token per word plus one per
// punctuation run), so truncation stays inside the real provider budget.
package tokens

import (
	"regexp"
	"strings"
)

var (
	htmlTagRE     = regexp.MustCompile(`<[^>]+>`)
	whitespaceRE  = regexp.MustCompile(`\s+`)
	specialRE     = regexp.MustCompile(`[^\p{L}\p{N}\s.,!?-]`)
	punctuationRE = regexp.MustCompile(`[.,!?-]+`)
)

// Clean prepares raw content for embedding: HTML tags stripped, whitespace
// collapsed, control/special characters removed.
func Clean(text string) string {
	text = htmlTagRE.ReplaceAllString(text, "")
	text = specialRE.ReplaceAllString(text, "")
	text = whitespaceRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Count estimates the token count of text.
func Count(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	count := len(strings.Fields(text))
	count += len(punctuationRE.FindAllString(text, -1))
	return count
}

// Truncate deterministically cuts text down to at most maxTokens, keeping
// the leading words. Returns text unchanged when it fits the budget.
func Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	if Count(text) <= maxTokens {
		return text
	}

	fields := strings.Fields(text)
	// Binary search the longest prefix that fits. Count is monotonic over
	// word prefixes, so this is safe.
	lo, hi := 0, len(fields)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if Count(strings.Join(fields[:mid], " ")) <= maxTokens {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return strings.Join(fields[:lo], " ")
}
