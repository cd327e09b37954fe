package app

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"review_sentiment/internal/domain"
)

// The API default page is 50; 100 and 200 are the other common sizes.
// Only these are cached, since ingest evicts exactly these keys.
var cachedLimits = []int{50, 100, 200}

func cacheable(limit int) bool { return slices.Contains(cachedLimits, limit) }

func reviewsKey(id int64, q domain.ReviewQuery) string {
	label := "all"
	if q.Sentiment != nil {
		label = q.Sentiment.String()
	}
	return fmt.Sprintf("reviews:%d:%d:%s", id, q.Limit, label)
}

func summaryKey(id int64) string { return fmt.Sprintf("summary:%d", id) }

// propertyCacheKeys lists every key a property write must evict.
func propertyCacheKeys(id int64) []string {
	keys := []string{summaryKey(id)}
	for _, lim := range cachedLimits {
		keys = append(keys, reviewsKey(id, domain.ReviewQuery{Limit: lim}))
		for _, s := range domain.Sentiments() {
			s := s
			keys = append(keys, reviewsKey(id, domain.ReviewQuery{Limit: lim, Sentiment: &s}))
		}
	}
	return keys
}

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// Classify builds a review without touching storage.
func (s *QueryService) Classify(text string, rating float64) domain.Review {
	return domain.NewReview(text, rating)
}

func (s *QueryService) ListReviews(ctx context.Context, id int64, q domain.ReviewQuery) (domain.ReviewsPage, error) {
	if !cacheable(q.Limit) {
		rs, err := s.repo.ListReviews(ctx, id, q)
		if err != nil {
			return domain.ReviewsPage{}, err
		}
		return deepCopyReviewsPage(rs), nil
	}

	key := reviewsKey(id, q)
	var out domain.ReviewsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rs, err := s.repo.ListReviews(ctx, id, q)
	if err != nil {
		return domain.ReviewsPage{}, err
	}

	// copy slice to avoid aliasing the repo's backing array
	copyRS := deepCopyReviewsPage(rs)

	// optional size guard
	if b, _ := json.Marshal(copyRS); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, copyRS, int(s.cacheTTL.Seconds()))
	}
	return copyRS, nil
}

func (s *QueryService) Summary(ctx context.Context, id int64) (domain.SentimentSummary, error) {
	key := summaryKey(id)
	var out domain.SentimentSummary
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	sum, err := s.repo.SummarizeSentiment(ctx, id)
	if err != nil {
		return domain.SentimentSummary{}, err
	}
	// every label present, even at zero
	counts := make(map[domain.Sentiment]int64, 3)
	for _, l := range domain.Sentiments() {
		counts[l] = sum.Counts[l]
	}
	sum.Counts = counts
	_ = s.cache.Set(ctx, key, sum, int(s.cacheTTL.Seconds()))
	return sum, nil
}

func deepCopyReviewsPage(in domain.ReviewsPage) domain.ReviewsPage {
	// never nil, so an empty page encodes as []
	out := domain.ReviewsPage{NextCursor: in.NextCursor, Items: make([]domain.ReviewRecord, len(in.Items))}
	copy(out.Items, in.Items)
	return out
}
