package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/telemetry"
)

const (
	defaultRecommendLimit   = 5
	maxRecommendLimit       = 20
	defaultRecommendTimeout = 10 * time.Second

	// interactionHistoryWindow bounds how much history feeds the profile.
	interactionHistoryWindow = 50
	// topCategoryCount is how many interest categories drive retrieval.
	topCategoryCount = 3
	// durationFactorCap bounds the duration multiplier so one long session
	// cannot dominate the profile.
	durationFactorCap = 5.0
	// trendingScore is the fixed score of cold-start recommendations.
	trendingScore  = 0.8
	trendingReason = "trending content"
)

// interactionBaseWeights maps interaction kinds to profile weights.
var interactionBaseWeights = map[domain.InteractionKind]float64{
	domain.InteractionView:     1.0,
	domain.InteractionLike:     2.0,
	domain.InteractionBookmark: 3.0,
	domain.InteractionShare:    2.5,
	domain.InteractionSearch:   1.0,
}

// InteractionReader reads a user's interaction history. Owned by the
// business-entity collaborator; never written through this interface.
type InteractionReader interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.InteractionEvent, error)
}

// RecommendationStore persists generated recommendations for later
// shown/clicked tracking by the consuming surface.
type RecommendationStore interface {
	CreateBatch(ctx context.Context, recs []*domain.Recommendation) error
}

// interestProfile is a per-user weighted distribution over categories and
// content classes derived from interaction history.
type interestProfile struct {
	categories map[string]float64
	classes    map[domain.ContentClass]float64
	total      float64
}

// RecommendationService builds interest profiles and scores candidate
// content against them, with a trending fallback for cold starts.
type RecommendationService struct {
	content      ContentStore
	interactions InteractionReader
	recs         RecommendationStore
	timeout      time.Duration
	now          func() time.Time
}

// NewRecommendationService creates a new RecommendationService instance
func NewRecommendationService(content ContentStore, interactions InteractionReader, recs RecommendationStore) *RecommendationService {
	return &RecommendationService{
		content:      content,
		interactions: interactions,
		recs:         recs,
		timeout:      defaultRecommendTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithTimeout overrides the per-call deadline.
func (s *RecommendationService) WithTimeout(d time.Duration) *RecommendationService {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Recommend returns up to limit ranked recommendations for a user. Users
// without interaction history (or whose history resolves to no categories)
// get trending content; everyone else gets personalized picks from their
// top interest categories.
func (s *RecommendationService) Recommend(ctx context.Context, userID string, limit int) ([]*domain.Recommendation, error) {
	if userID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "user ID is required")
	}
	limit = normalizeRecommendLimit(limit)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ctx, span := telemetry.StartSpan(ctx, "RecommendationService.Recommend", telemetry.SpanAttributes{
		UserID:    userID,
		Operation: "recommend",
	})
	defer span.End()

	history, err := s.interactions.ListByUser(ctx, userID, interactionHistoryWindow)
	if err != nil {
		return nil, timeoutOr(ctx, err)
	}

	var recs []*domain.Recommendation
	if len(history) == 0 {
		recs, err = s.trending(ctx, userID, limit)
	} else {
		profile := s.buildProfile(ctx, history)
		if len(profile.categories) == 0 {
			recs, err = s.trending(ctx, userID, limit)
		} else {
			recs, err = s.personalized(ctx, userID, profile, limit)
		}
	}
	if err != nil {
		span.SetError(err)
		return nil, timeoutOr(ctx, err)
	}

	if len(recs) > 0 {
		if err := s.recs.CreateBatch(ctx, recs); err != nil {
			return nil, timeoutOr(ctx, err)
		}
	}

	return recs, nil
}

// buildProfile accumulates interaction weight per category and content
// class. Events whose referenced content no longer resolves contribute
// nothing to categories.
func (s *RecommendationService) buildProfile(ctx context.Context, history []*domain.InteractionEvent) *interestProfile {
	profile := &interestProfile{
		categories: make(map[string]float64),
		classes:    make(map[domain.ContentClass]float64),
	}

	for _, event := range history {
		weight, ok := interactionBaseWeights[event.Kind]
		if !ok {
			weight = 1.0
		}
		if event.DurationSeconds > 0 {
			factor := float64(event.DurationSeconds) / 60.0
			if factor > durationFactorCap {
				factor = durationFactorCap
			}
			weight *= factor
		}

		if event.ContentID == "" {
			continue
		}
		item, err := s.content.GetByID(ctx, event.ContentID)
		if err != nil {
			if errors.Is(err, domain.ErrContentNotFound) {
				continue
			}
			continue
		}
		if item.Category != "" {
			profile.categories[item.Category] += weight
			profile.total += weight
		}
		profile.classes[item.Class] += weight
	}

	return profile
}

// personalized retrieves verified candidates from the user's top interest
// categories, scoring each as that category's normalized share of interest.
func (s *RecommendationService) personalized(ctx context.Context, userID string, profile *interestProfile, limit int) ([]*domain.Recommendation, error) {
	type categoryWeight struct {
		category string
		weight   float64
	}
	ranked := make([]categoryWeight, 0, len(profile.categories))
	for category, weight := range profile.categories {
		ranked = append(ranked, categoryWeight{category, weight})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].category < ranked[j].category
	})
	if len(ranked) > topCategoryCount {
		ranked = ranked[:topCategoryCount]
	}

	perCategory := limit / len(ranked)
	if perCategory < 1 {
		perCategory = 1
	}

	now := s.now()
	recs := make([]*domain.Recommendation, 0, limit)
	for _, cw := range ranked {
		candidates, err := s.content.ListVerifiedByCategory(ctx, cw.category, perCategory)
		if err != nil {
			return nil, err
		}
		for _, item := range candidates {
			recs = append(recs, &domain.Recommendation{
				ID:           uuid.NewString(),
				UserID:       userID,
				ContentID:    item.ID,
				ContentClass: item.Class,
				Kind:         domain.RecommendationPersonalized,
				Score:        cw.weight / profile.total,
				Reason:       fmt.Sprintf("based on your interest in %q", cw.category),
				CreatedAt:    now,
			})
		}
	}

	// Highest score first; equal scores keep category-weight order from the
	// build above, which SliceStable preserves.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// trending returns the most recently added verified content at a fixed
// score. Used for cold starts and unresolvable profiles.
func (s *RecommendationService) trending(ctx context.Context, userID string, limit int) ([]*domain.Recommendation, error) {
	items, err := s.content.ListRecentVerified(ctx, limit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	recs := make([]*domain.Recommendation, 0, len(items))
	for _, item := range items {
		recs = append(recs, &domain.Recommendation{
			ID:           uuid.NewString(),
			UserID:       userID,
			ContentID:    item.ID,
			ContentClass: item.Class,
			Kind:         domain.RecommendationTrending,
			Score:        trendingScore,
			Reason:       trendingReason,
			CreatedAt:    now,
		})
	}
	return recs, nil
}

func normalizeRecommendLimit(limit int) int {
	if limit <= 0 {
		return defaultRecommendLimit
	}
	if limit > maxRecommendLimit {
		return maxRecommendLimit
	}
	return limit
}
