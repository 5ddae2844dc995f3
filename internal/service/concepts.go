package service

import (
	"context"
	"strings"

	"github.com/brightpath-learning/brightpath/internal/domain"
)

const (
	defaultRelatedLimit = 5
	maxRelatedLimit     = 20
)

// ConceptStore resolves finance concepts by their term.
type ConceptStore interface {
	GetConceptByTerm(ctx context.Context, term string) (*domain.ContentItem, error)
}

// ConceptService answers "what concepts are related to this one" by nearest
// neighbor lookup on the anchor concept's embedding.
type ConceptService struct {
	concepts ConceptStore
	index    VectorIndex
}

// NewConceptService creates a new ConceptService instance
func NewConceptService(concepts ConceptStore, index VectorIndex) *ConceptService {
	return &ConceptService{concepts: concepts, index: index}
}

// Related returns the concepts nearest to the named term, excluding the
// anchor itself.
func (s *ConceptService) Related(ctx context.Context, term string, limit int) ([]*SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "concept term is required")
	}
	if limit <= 0 {
		limit = defaultRelatedLimit
	}
	if limit > maxRelatedLimit {
		limit = maxRelatedLimit
	}

	anchor, err := s.concepts.GetConceptByTerm(ctx, term)
	if err != nil {
		return nil, err
	}
	if anchor.Embedding == nil {
		return nil, domain.NewDomainError(domain.ErrCodeUnavailable, "concept has not been embedded yet")
	}

	// One extra slot because the anchor ranks first against itself.
	matches, err := s.index.Query(ctx, anchor.Embedding, IndexFilters{
		Classes: []domain.ContentClass{domain.ContentClassConcept},
	}, limit+1)
	if err != nil {
		return nil, err
	}

	results := make([]*SearchResult, 0, limit)
	for _, m := range matches {
		if m.Item.ID == anchor.ID {
			continue
		}
		results = append(results, &SearchResult{
			ContentID:  m.Item.ID,
			Class:      m.Item.Class,
			Title:      m.Item.Title,
			Snippet:    makeSnippet(m.Item.Body),
			Category:   m.Item.Category,
			Difficulty: m.Item.Difficulty,
			Similarity: m.Similarity,
		})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}
