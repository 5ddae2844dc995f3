package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/telemetry"
)

const (
	defaultSearchLimit   = 10
	maxSearchLimit       = 50
	defaultSearchTimeout = 10 * time.Second
	snippetMaxChars      = 200
	sinkPublishTimeout   = 3 * time.Second
)

// SearchLogStore persists search query records and click feedback.
type SearchLogStore interface {
	CreateSearchQuery(ctx context.Context, rec *domain.SearchQueryRecord) (string, error)
	RecordClick(ctx context.Context, searchID, contentID string) error
}

// InteractionSink receives best-effort "search performed" notifications.
// Failures must never fail the search that triggered them.
type InteractionSink interface {
	RecordSearch(ctx context.Context, userID, query string, resultCount int) error
}

// SearchInput represents input for one search call.
type SearchInput struct {
	Query      string
	UserID     string
	Classes    []domain.ContentClass
	Categories []string
	Limit      int
}

// SearchResult is one ranked hit returned to the caller.
type SearchResult struct {
	ContentID  string
	Class      domain.ContentClass
	Title      string
	Snippet    string
	Category   string
	Difficulty domain.Difficulty
	Similarity float64
	Source     string
}

// SearchOutput bundles ranked results with the recorded query's ID so the
// surface can report click feedback later.
type SearchOutput struct {
	SearchID string
	Results  []*SearchResult
}

// SearchService fans a query out across content classes, merges and ranks
// the per-class results, and records every query.
type SearchService struct {
	embedder EmbeddingClient
	index    VectorIndex
	logs     SearchLogStore
	sink     InteractionSink
	timeout  time.Duration
	now      func() time.Time
}

// NewSearchService creates a new SearchService instance. sink may be nil
// when no interaction-history collaborator is configured.
func NewSearchService(embedder EmbeddingClient, index VectorIndex, logs SearchLogStore, sink InteractionSink) *SearchService {
	return &SearchService{
		embedder: embedder,
		index:    index,
		logs:     logs,
		sink:     sink,
		timeout:  defaultSearchTimeout,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithTimeout overrides the per-call deadline.
func (s *SearchService) WithTimeout(d time.Duration) *SearchService {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Search embeds the query once, queries the index per content class in
// parallel, deduplicates lesson chunks by parent lesson, and returns the
// merged ranking. On deadline expiry in-flight work is abandoned and the
// call fails with ErrQueryTimeout instead of returning a partial ranking.
func (s *SearchService) Search(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	limit := normalizeLimit(input.Limit)
	classes := input.Classes
	if len(classes) == 0 {
		classes = domain.AllContentClasses
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ctx, span := telemetry.StartSpan(ctx, "SearchService.Search", telemetry.SpanAttributes{
		UserID:    input.UserID,
		Operation: "search",
	})
	defer span.End()

	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, timeoutOr(ctx, err)
	}

	// Each per-class query is bounded to keep the merge bounded.
	perClass := (limit + len(classes) - 1) / len(classes)
	if perClass < 1 {
		perClass = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	perClassResults := make([][]*IndexMatch, len(classes))
	for i, class := range classes {
		g.Go(func() error {
			filters := IndexFilters{
				Classes:    []domain.ContentClass{class},
				Categories: input.Categories,
			}
			matches, err := s.index.Query(gctx, embedding, filters, perClass)
			if err != nil {
				return err
			}
			perClassResults[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetError(err)
		return nil, timeoutOr(ctx, err)
	}

	merged := mergeMatches(perClassResults, limit)

	record := &domain.SearchQueryRecord{
		ID:             uuid.NewString(),
		UserID:         input.UserID,
		Query:          query,
		QueryEmbedding: embedding,
		ResultsCount:   len(merged),
		CreatedAt:      s.now(),
	}
	searchID, err := s.logs.CreateSearchQuery(ctx, record)
	if err != nil {
		return nil, timeoutOr(ctx, err)
	}

	if input.UserID != "" && s.sink != nil {
		s.notifySink(input.UserID, query, len(merged))
	}

	return &SearchOutput{SearchID: searchID, Results: merged}, nil
}

// RecordClick sets the clicked result on a previously recorded search.
func (s *SearchService) RecordClick(ctx context.Context, searchID, contentID string) error {
	if searchID == "" || contentID == "" {
		return domain.NewDomainError(domain.ErrCodeValidation, "search ID and content ID are required")
	}
	return s.logs.RecordClick(ctx, searchID, contentID)
}

// notifySink publishes the search interaction without blocking the caller.
// The publish runs on a detached context so search completion or failure
// does not depend on the sink.
func (s *SearchService) notifySink(userID, query string, resultCount int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sinkPublishTimeout)
		defer cancel()
		if err := s.sink.RecordSearch(ctx, userID, query, resultCount); err != nil {
			log.Printf("search: interaction sink publish failed: %v", err)
		}
	}()
}

// mergeMatches concatenates per-class rankings, keeps only the best chunk
// per lesson, and sorts descending by similarity with recency breaking ties.
func mergeMatches(perClass [][]*IndexMatch, limit int) []*SearchResult {
	bestPerLesson := make(map[string]*IndexMatch)
	merged := make([]*IndexMatch, 0, limit*2)

	for _, matches := range perClass {
		for _, m := range matches {
			if m == nil || m.Item == nil {
				continue
			}
			if m.Item.Class == domain.ContentClassLessonChunk {
				existing, ok := bestPerLesson[m.Item.LessonID]
				if !ok || m.Similarity > existing.Similarity {
					bestPerLesson[m.Item.LessonID] = m
				}
				continue
			}
			merged = append(merged, m)
		}
	}
	for _, m := range bestPerLesson {
		merged = append(merged, m)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Similarity != merged[j].Similarity {
			return merged[i].Similarity > merged[j].Similarity
		}
		return merged[i].Item.CreatedAt.After(merged[j].Item.CreatedAt)
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}

	results := make([]*SearchResult, 0, len(merged))
	for _, m := range merged {
		results = append(results, &SearchResult{
			ContentID:  m.Item.ID,
			Class:      m.Item.Class,
			Title:      m.Item.Title,
			Snippet:    makeSnippet(m.Item.Body),
			Category:   m.Item.Category,
			Difficulty: m.Item.Difficulty,
			Similarity: m.Similarity,
			Source:     m.Item.Source,
		})
	}
	return results
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}

// timeoutOr maps a deadline expiry onto the typed timeout error so callers
// can tell "too slow" apart from "backend down".
func timeoutOr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrQueryTimeout
	}
	return err
}

func makeSnippet(body string) string {
	body = strings.TrimSpace(body)
	if len(body) <= snippetMaxChars {
		return body
	}
	runes := []rune(body)
	if len(runes) <= snippetMaxChars {
		return body
	}
	return strings.TrimSpace(string(runes[:snippetMaxChars])) + "..."
}
