package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"review_sentiment/internal/adapters/observability"
	"review_sentiment/internal/domain"
)

type IngestionService struct {
	source      domain.ReviewSource
	repo        domain.ReviewRepository
	cache       domain.Cache
	ratingScale float64
}

// IngestResult reports what one property ingest did.
type IngestResult struct {
	Stored  int
	Skipped int
	Counts  map[domain.Sentiment]int
	Missed  bool
}

func NewIngestionService(src domain.ReviewSource, r domain.ReviewRepository, cache domain.Cache, ratingScale float64) *IngestionService {
	return &IngestionService{source: src, repo: r, cache: cache, ratingScale: ratingScale}
}

func (s *IngestionService) IngestProperty(ctx context.Context, id int64, reviewCount int) (IngestResult, error) {
	res := IngestResult{Counts: make(map[domain.Sentiment]int, 3)}

	raw, err := s.source.GetReviews(ctx, id, reviewCount)
	if err != nil {
		var status int
		switch {
		// 404: nothing upstream -> record miss, evict caches, stop gracefully.
		case errors.Is(err, domain.ErrNotFound):
			status = 404
		// 401/403: unauthorized/forbidden/inactive -> same.
		case errors.Is(err, domain.ErrForbidden):
			status = 403
		default:
			return res, fmt.Errorf("fetch reviews for %d: %w", id, err)
		}
		if lerr := s.repo.LogMiss(ctx, id, status, "reviews"); lerr != nil {
			log.Warn().Err(lerr).Int64("property_id", id).Int("status", status).Msg("log miss failed")
		}
		s.invalidate(ctx, id)
		res.Missed = true
		return res, nil
	}

	recs, skipped := mapReviews(id, raw, s.ratingScale)
	res.Skipped = skipped
	if skipped > 0 {
		log.Debug().Int64("property_id", id).Int("skipped", skipped).Msg("reviews without rating skipped")
	}

	if len(recs) > 0 {
		if err := s.repo.UpsertReviews(ctx, recs); err != nil {
			// do not swallow this; surface so we know inserts failed
			return res, fmt.Errorf("upsert reviews failed for %d: %w", id, err)
		}
	}
	for _, rec := range recs {
		sent := rec.Review.Sentiment()
		res.Counts[sent]++
		observability.ObserveClassified(sent)
	}
	res.Stored = len(recs)

	// even if zero reviews, invalidate to drop any stale entries
	s.invalidate(ctx, id)
	return res, nil
}

func (s *IngestionService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	for _, key := range propertyCacheKeys(id) {
		_ = s.cache.Del(ctx, key)
	}
}
