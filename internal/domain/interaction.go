package domain

import (
	"fmt"
	"time"
)

// InteractionKind represents the type of a user interaction.
type InteractionKind string

const (
	InteractionView     InteractionKind = "view"
	InteractionLike     InteractionKind = "like"
	InteractionBookmark InteractionKind = "bookmark"
	InteractionShare    InteractionKind = "share"
	InteractionSearch   InteractionKind = "search"
)

// InteractionEvent records a single user action against content. Events are
// append-only; this core only reads them.
type InteractionEvent struct {
	ID              string
	UserID          string
	Kind            InteractionKind
	ContentID       string
	Query           string
	DurationSeconds int
	Rating          *float64
	CreatedAt       time.Time
}

// ValidateInteractionEvent validates an InteractionEvent instance.
func ValidateInteractionEvent(e *InteractionEvent) error {
	if e == nil {
		return fmt.Errorf("interaction event cannot be nil")
	}
	if e.UserID == "" {
		return fmt.Errorf("interaction event UserID is required")
	}
	if !isValidInteractionKind(e.Kind) {
		return fmt.Errorf("interaction event Kind is invalid: %s", e.Kind)
	}
	if e.DurationSeconds < 0 {
		return fmt.Errorf("interaction event DurationSeconds cannot be negative")
	}
	return nil
}

func isValidInteractionKind(k InteractionKind) bool {
	switch k {
	case InteractionView, InteractionLike, InteractionBookmark, InteractionShare, InteractionSearch:
		return true
	}
	return false
}
