package domain

import "time"

// SearchQueryRecord captures one search call for analytics and feedback.
// Immutable after creation except ClickedResultID, which may be set once.
type SearchQueryRecord struct {
	ID              string
	UserID          string
	Query           string
	QueryEmbedding  []float32
	ResultsCount    int
	ClickedResultID string
	CreatedAt       time.Time
}
