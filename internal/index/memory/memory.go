// Package memory provides an in-memory vector index using brute-force
// cosine similarity. Intended for tests and local development; the Postgres
// index is the production implementation.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/service"
)

// Index is a brute-force in-memory implementation of service.VectorIndex.
type Index struct {
	mu    sync.RWMutex
	items map[string]*domain.ContentItem
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{items: make(map[string]*domain.ContentItem)}
}

// Upsert stores or replaces an item by ID.
func (x *Index) Upsert(_ context.Context, item *domain.ContentItem) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	copied := *item
	x.items[item.ID] = &copied
	return nil
}

// SetEmbedding attaches an embedding to a stored item.
func (x *Index) SetEmbedding(_ context.Context, contentID string, embedding []float32) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	item, ok := x.items[contentID]
	if !ok {
		return domain.ErrContentNotFound
	}
	item.Embedding = embedding
	return nil
}

// ReplaceLessonChunks swaps a lesson's chunk set under one lock hold, so
// readers never observe a mix of old and new chunks.
func (x *Index) ReplaceLessonChunks(_ context.Context, lessonID string, chunks []*domain.ContentItem) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for id, item := range x.items {
		if item.Class == domain.ContentClassLessonChunk && item.LessonID == lessonID {
			delete(x.items, id)
		}
	}
	for _, chunk := range chunks {
		copied := *chunk
		x.items[chunk.ID] = &copied
	}
	return nil
}

// Query ranks items with embeddings by cosine similarity against vector.
// Items without an embedding are invisible to search.
func (x *Index) Query(_ context.Context, vector []float32, filters service.IndexFilters, limit int) ([]*service.IndexMatch, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	matches := make([]*service.IndexMatch, 0, limit)
	for _, item := range x.items {
		if item.Embedding == nil {
			continue
		}
		if !matchesFilters(item, filters) {
			continue
		}
		copied := *item
		matches = append(matches, &service.IndexMatch{
			Item:       &copied,
			Similarity: cosineSimilarity(vector, item.Embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Item.CreatedAt.After(matches[j].Item.CreatedAt)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func matchesFilters(item *domain.ContentItem, filters service.IndexFilters) bool {
	if len(filters.Classes) > 0 && !containsClass(filters.Classes, item.Class) {
		return false
	}
	if len(filters.Categories) > 0 && !containsString(filters.Categories, item.Category) {
		return false
	}
	if len(filters.Difficulties) > 0 && !containsDifficulty(filters.Difficulties, item.Difficulty) {
		return false
	}
	return true
}

func containsClass(classes []domain.ContentClass, class domain.ContentClass) bool {
	for _, c := range classes {
		if c == class {
			return true
		}
	}
	return false
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func containsDifficulty(values []domain.Difficulty, value domain.Difficulty) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// cosineSimilarity returns a score clamped to [0, 1]. Zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
