package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

type ReviewRepository interface {
	// Write paths
	UpsertReviews(ctx context.Context, rs []ReviewRecord) error
	LogMiss(ctx context.Context, id int64, status int, reason string) error

	// Read paths
	ListReviews(ctx context.Context, propertyID int64, q ReviewQuery) (ReviewsPage, error)
	SummarizeSentiment(ctx context.Context, propertyID int64) (SentimentSummary, error)
}

type ReviewSource interface {
	GetReviews(ctx context.Context, propertyID int64, count int) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ReviewRecord is a stored review: the classified Review plus provenance.
type ReviewRecord struct {
	ID         int64     `json:"id,omitempty"`
	PropertyID int64     `json:"property_id"`
	SourceID   *string   `json:"source_id,omitempty"`
	Author     *string   `json:"author,omitempty"`
	Lang       *string   `json:"lang,omitempty"`
	Title      *string   `json:"title,omitempty"`
	Source     *string   `json:"source,omitempty"`
	Review     Review    `json:"review"`
	CreatedAt  time.Time `json:"created_at"`
	RawJSON    []byte    `json:"-"`
}

type ReviewQuery struct {
	Limit     int
	Sentiment *Sentiment // nil = all labels
}

type ReviewsPage struct {
	Items      []ReviewRecord `json:"items"`
	NextCursor *string        `json:"next_cursor,omitempty"`
}

type SentimentSummary struct {
	PropertyID    int64               `json:"property_id"`
	Counts        map[Sentiment]int64 `json:"counts"`
	Total         int64               `json:"total"`
	AverageRating float64             `json:"average_rating"`
}
