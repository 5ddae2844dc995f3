package domain

import (
	"fmt"
	"time"
)

// RecommendationKind classifies why content was recommended.
type RecommendationKind string

const (
	RecommendationSimilar      RecommendationKind = "similar"
	RecommendationNextStep     RecommendationKind = "next_step"
	RecommendationTrending     RecommendationKind = "trending"
	RecommendationPersonalized RecommendationKind = "personalized"
)

// Recommendation is a scored suggestion of content for a user. Shown and
// Clicked are set by the consuming surface after delivery; everything else
// is immutable once created.
type Recommendation struct {
	ID           string
	UserID       string
	ContentID    string
	ContentClass ContentClass
	Kind         RecommendationKind
	Score        float64
	Reason       string
	Shown        bool
	Clicked      bool
	CreatedAt    time.Time
}

// ValidateRecommendation validates a Recommendation instance.
func ValidateRecommendation(r *Recommendation) error {
	if r == nil {
		return fmt.Errorf("recommendation cannot be nil")
	}
	if r.UserID == "" {
		return fmt.Errorf("recommendation UserID is required")
	}
	if r.ContentID == "" {
		return fmt.Errorf("recommendation ContentID is required")
	}
	if !isValidRecommendationKind(r.Kind) {
		return fmt.Errorf("recommendation Kind is invalid: %s", r.Kind)
	}
	if r.Score < 0 || r.Score > 1 {
		return fmt.Errorf("recommendation Score must be in [0,1], got %f", r.Score)
	}
	return nil
}

func isValidRecommendationKind(k RecommendationKind) bool {
	switch k {
	case RecommendationSimilar, RecommendationNextStep, RecommendationTrending, RecommendationPersonalized:
		return true
	}
	return false
}
