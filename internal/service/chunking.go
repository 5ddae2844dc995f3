package service

import (
	"regexp"
	"strings"

	"github.com/brightpath-learning/brightpath/internal/tokens"
)

// ChunkConfig controls chunking for lesson embeddings.
type ChunkConfig struct {
	MaxTokens int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{MaxTokens: 500}
}

// Chunk is one bounded segment of a larger content item, embedded
// independently. Index preserves source order.
type Chunk struct {
	Index   int
	Content string
}

var (
	sentenceRE = regexp.MustCompile(`[^.!?]+[.!?]+`)
	wordRE     = regexp.MustCompile(`[\p{L}\p{N}]`)
)

// splitSentences splits content on terminal punctuation. A trailing fragment
// without terminal punctuation counts as a sentence of its own; fragments
// with no letters or digits are dropped.
func splitSentences(content string) []string {
	var sentences []string
	keep := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && wordRE.MatchString(s) {
			sentences = append(sentences, s)
		}
	}

	last := 0
	for _, loc := range sentenceRE.FindAllStringIndex(content, -1) {
		keep(content[loc[0]:loc[1]])
		last = loc[1]
	}
	keep(content[last:])
	return sentences
}

// chunkText splits content into ordered segments, greedily accumulating
// sentences while the running segment stays within the token budget.
// Boundaries never split a sentence; a single sentence over budget still
// gets a chunk of its own so no input is lost.
func chunkText(content string, cfg ChunkConfig) []Chunk {
	if cfg.MaxTokens <= 0 {
		cfg = DefaultChunkConfig()
	}

	sentences := splitSentences(content)
	if len(sentences) == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, 4)
	current := ""
	flush := func() {
		if current != "" {
			chunks = append(chunks, Chunk{Index: len(chunks), Content: current})
			current = ""
		}
	}

	for _, sentence := range sentences {
		candidate := sentence
		if current != "" {
			candidate = current + " " + sentence
		}
		if tokens.Count(candidate) <= cfg.MaxTokens {
			current = candidate
			continue
		}
		flush()
		current = sentence
	}
	flush()

	return chunks
}
