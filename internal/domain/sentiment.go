package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentiment is the label derived from a review rating.
type Sentiment string

const (
	Positive Sentiment = "POSITIVE"
	Negative Sentiment = "NEGATIVE"
	Neutral  Sentiment = "NEUTRAL"
)

var ErrUnknownSentiment = errors.New("unknown sentiment")

// Sentiments returns every label, best first.
func Sentiments() []Sentiment {
	return []Sentiment{Positive, Neutral, Negative}
}

func (s Sentiment) String() string { return string(s) }

func (s Sentiment) Valid() bool {
	switch s {
	case Positive, Negative, Neutral:
		return true
	}
	return false
}

// ParseSentiment accepts any casing ("positive", "Positive", "POSITIVE").
func ParseSentiment(v string) (Sentiment, error) {
	s := Sentiment(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSentiment, v)
	}
	return s, nil
}

// Classify maps a rating to a sentiment. It is total: any value, including
// ratings outside 1..5, gets a label.
func Classify(rating float64) Sentiment {
	switch {
	case rating <= 2:
		return Negative
	case rating >= 4:
		return Positive
	default:
		return Neutral
	}
}
