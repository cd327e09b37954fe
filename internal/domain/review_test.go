package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_sentiment/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		rating float64
		want   domain.Sentiment
	}{
		{"one", 1, domain.Negative},
		{"exactly two", 2, domain.Negative},
		{"negative rating", -5, domain.Negative},
		{"zero", 0, domain.Negative},
		{"just above two", 2.0001, domain.Neutral},
		{"two and a half", 2.5, domain.Neutral},
		{"three", 3, domain.Neutral},
		{"just below four", 3.9999, domain.Neutral},
		{"exactly four", 4, domain.Positive},
		{"five", 5, domain.Positive},
		{"far above scale", 100, domain.Positive},
		{"positive infinity", math.Inf(1), domain.Positive},
		{"negative infinity", math.Inf(-1), domain.Negative},
		{"not a number", math.NaN(), domain.Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Classify(tt.rating))
		})
	}
}

func TestNewReview_Scenarios(t *testing.T) {
	r := domain.NewReview("Great product!", 5)
	assert.Equal(t, "Great product!", r.Text())
	assert.Equal(t, 5.0, r.Rating())
	assert.Equal(t, domain.Positive, r.Sentiment())

	assert.Equal(t, domain.Negative, domain.NewReview("Terrible, broke immediately", 1).Sentiment())
	assert.Equal(t, domain.Neutral, domain.NewReview("It was okay", 3).Sentiment())
}

func TestNewReview_PreservesFields(t *testing.T) {
	for _, tc := range []struct {
		text   string
		rating float64
	}{
		{"", 0},
		{"  padded  ", 2.5},
		{"ünïcödé ✓", -3},
		{"line\nbreak", 1e9},
	} {
		r := domain.NewReview(tc.text, tc.rating)
		assert.Equal(t, tc.text, r.Text())
		assert.Equal(t, tc.rating, r.Rating())
		assert.Equal(t, domain.Classify(tc.rating), r.Sentiment())
	}
}

func TestNewReview_Idempotent(t *testing.T) {
	a := domain.NewReview("same", 3.5)
	b := domain.NewReview("same", 3.5)
	assert.Equal(t, a, b)
}

func TestReview_JSON(t *testing.T) {
	b, err := json.Marshal(domain.NewReview("Great product!", 5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"Great product!","rating":5,"sentiment":"POSITIVE"}`, string(b))

	var got domain.Review
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, domain.NewReview("Great product!", 5), got)
}

func TestReview_UnmarshalIgnoresSentiment(t *testing.T) {
	var got domain.Review
	require.NoError(t, json.Unmarshal([]byte(`{"text":"meh","rating":1,"sentiment":"POSITIVE"}`), &got))
	assert.Equal(t, domain.Negative, got.Sentiment())
}

func TestParseSentiment(t *testing.T) {
	for _, in := range []string{"positive", "Positive", " POSITIVE "} {
		s, err := domain.ParseSentiment(in)
		require.NoError(t, err)
		assert.Equal(t, domain.Positive, s)
	}

	_, err := domain.ParseSentiment("mixed")
	assert.ErrorIs(t, err, domain.ErrUnknownSentiment)
}

func TestSentiments_ClosedSet(t *testing.T) {
	all := domain.Sentiments()
	require.Len(t, all, 3)
	seen := map[domain.Sentiment]bool{}
	for _, s := range all {
		assert.True(t, s.Valid())
		seen[s] = true
	}
	assert.Len(t, seen, 3)
	assert.False(t, domain.Sentiment("MIXED").Valid())
	assert.False(t, domain.Sentiment("").Valid())
}

func TestReviewRecord_JSONAlwaysCarriesCreatedAt(t *testing.T) {
	b, err := json.Marshal(domain.ReviewRecord{PropertyID: 1, Review: domain.NewReview("ok", 3)})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Contains(t, m, "created_at")
	assert.NotContains(t, m, "RawJSON")
}
