package domain

import (
	"fmt"
	"time"
)

// ContentClass discriminates the kinds of indexable content.
type ContentClass string

const (
	ContentClassArticle     ContentClass = "knowledge_article"
	ContentClassLessonChunk ContentClass = "lesson_chunk"
	ContentClassConcept     ContentClass = "concept"
)

// AllContentClasses lists every content class in orchestration order.
var AllContentClasses = []ContentClass{
	ContentClassArticle,
	ContentClassLessonChunk,
	ContentClassConcept,
}

// Difficulty represents the ordered difficulty tier of content.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// EmbeddingDimensions is the fixed dimension of every stored vector.
const EmbeddingDimensions = 1536

// ContentItem is the tagged-variant content model. Articles and concepts
// stand alone; lesson chunks additionally carry LessonID and ChunkIndex
// establishing order within their parent lesson.
type ContentItem struct {
	ID         string
	Class      ContentClass
	Title      string
	Body       string
	Category   string
	Difficulty Difficulty
	Verified   bool
	Source     string

	LessonID   string
	ChunkIndex int

	Embedding []float32

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Embeddable reports whether the item is eligible for similarity search.
func (c *ContentItem) Embeddable() bool {
	return len(c.Embedding) == EmbeddingDimensions
}

// NewArticle creates a knowledge-base article content item.
func NewArticle(id, title, body, category string, difficulty Difficulty, source string, verified bool, now time.Time) *ContentItem {
	return &ContentItem{
		ID:         id,
		Class:      ContentClassArticle,
		Title:      title,
		Body:       body,
		Category:   category,
		Difficulty: difficulty,
		Source:     source,
		Verified:   verified,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewConcept creates a terminology/concept content item.
func NewConcept(id, term, definition, category string, difficulty Difficulty, verified bool, now time.Time) *ContentItem {
	return &ContentItem{
		ID:         id,
		Class:      ContentClassConcept,
		Title:      term,
		Body:       definition,
		Category:   category,
		Difficulty: difficulty,
		Verified:   verified,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewLessonChunk creates one ordered chunk of a lesson.
func NewLessonChunk(id, lessonID string, chunkIndex int, title, body, category string, difficulty Difficulty, now time.Time) *ContentItem {
	return &ContentItem{
		ID:         id,
		Class:      ContentClassLessonChunk,
		Title:      title,
		Body:       body,
		Category:   category,
		Difficulty: difficulty,
		LessonID:   lessonID,
		ChunkIndex: chunkIndex,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ValidateContentItem validates a ContentItem instance.
func ValidateContentItem(c *ContentItem) error {
	if c == nil {
		return fmt.Errorf("content item cannot be nil")
	}
	if c.ID == "" {
		return fmt.Errorf("content item ID is required")
	}
	if c.Title == "" {
		return fmt.Errorf("content item Title is required")
	}
	if c.Body == "" {
		return fmt.Errorf("content item Body is required")
	}
	if !IsValidContentClass(c.Class) {
		return fmt.Errorf("content item Class is invalid: %s", c.Class)
	}
	if !IsValidDifficulty(c.Difficulty) {
		return fmt.Errorf("content item Difficulty is invalid: %s", c.Difficulty)
	}
	if c.Class == ContentClassLessonChunk {
		if c.LessonID == "" {
			return fmt.Errorf("lesson chunk requires LessonID")
		}
		if c.ChunkIndex < 0 {
			return fmt.Errorf("lesson chunk ChunkIndex cannot be negative")
		}
	}
	if len(c.Embedding) != 0 && len(c.Embedding) != EmbeddingDimensions {
		return fmt.Errorf("content item embedding must have %d dimensions, got %d", EmbeddingDimensions, len(c.Embedding))
	}
	return nil
}

// IsValidContentClass checks if a ContentClass is valid.
func IsValidContentClass(c ContentClass) bool {
	switch c {
	case ContentClassArticle, ContentClassLessonChunk, ContentClassConcept:
		return true
	}
	return false
}

// IsValidDifficulty checks if a Difficulty is valid.
func IsValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}
