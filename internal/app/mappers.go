package app

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"review_sentiment/internal/domain"
)

// namespace for synthesized review source ids (UUIDv5)
var sourceIDNamespace = uuid.MustParse("6f1d7a3e-4b8c-5e2f-9a10-3c7d2b8e4f51")

/********** alias registry (single source of truth) **********/

var reviewAliases = map[string][]string{
	"author":       {"author", "name", "userName", "reviewer", "reviewer.name"},
	"author_first": {"first_name", "firstname", "user.first_name", "user.firstName"},
	"author_last":  {"last_name", "lastname", "user.last_name", "user.lastName"},
	"title":        {"title", "review_title", "headline", "summary"},
	"text":         {"text", "review_text", "review", "comment", "content", "body", "message"},
	"lang":         {"lang", "language", "language_code", "languageCode", "locale"},
	"source":       {"source", "platform", "provider", "site", "origin"},
	"source_id":    {"id", "review_id", "reviewId"},
	"rating":       {"rating", "rate", "score", "rating.value", "scores.overall", "overall_score", "average_score"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
// Numeric ids are accepted and rendered without a fraction.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		switch v := lookupAny(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return &s
			}
		case float64:
			if key == "source_id" {
				s := strconv.FormatFloat(v, 'f', -1, 64)
				return &s
			}
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case json.Number:
			if f, err := v.Float64(); err == nil && isFinite(f) {
				return &f
			}
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil && isFinite(f) {
				return &f
			}
		}
	}
	return nil
}

// isFinite rejects NaN and ±Inf, which ParseFloat accepts as text.
func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// firstSliceStrings: accept []any of strings.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// scaleRating converts an upstream score on a 0..scale range to the
// five-point range the sentiment thresholds are written for.
func scaleRating(v, scale float64) float64 {
	if scale <= 0 || scale == 5 {
		return v
	}
	return v * 5 / scale
}

/********** reviews mapper **********/

// mapReviews turns raw upstream payloads into classified records. Payloads
// without a usable rating cannot be classified and are skipped; the number
// skipped is returned.
func mapReviews(propertyID int64, in []map[string]any, scale float64) ([]domain.ReviewRecord, int) {
	out := make([]domain.ReviewRecord, 0, len(in))
	skipped := 0
	for _, r := range in {
		score := getFloatFlexible(r, reviewAliases["rating"]...)
		if score == nil {
			skipped++
			continue
		}
		rating := scaleRating(*score, scale)
		if !isFinite(rating) {
			skipped++
			continue
		}

		rec := domain.ReviewRecord{PropertyID: propertyID}

		// Author → prefer single field; fallback to first + last.
		if s := firstNonEmptyAlias(r, reviewAliases, "author"); s != nil {
			rec.Author = s
		} else {
			first := firstNonEmptyAlias(r, reviewAliases, "author_first")
			last := firstNonEmptyAlias(r, reviewAliases, "author_last")
			if full := joinNonEmpty(deref(first), deref(last)); full != "" {
				rec.Author = &full
			}
		}

		rec.Title = firstNonEmptyAlias(r, reviewAliases, "title")
		rec.Lang = firstNonEmptyAlias(r, reviewAliases, "lang")
		rec.Source = firstNonEmptyAlias(r, reviewAliases, "source")

		// Text → fallback compose from pros/cons.
		text := deref(firstNonEmptyAlias(r, reviewAliases, "text"))
		if text == "" {
			pros := strings.Join(firstSliceStrings(r, "pros", "positives"), "; ")
			if pros == "" {
				pros = strings.TrimSpace(lookupStr(r, "pros"))
			}
			cons := strings.Join(firstSliceStrings(r, "cons", "negatives"), "; ")
			if cons == "" {
				cons = strings.TrimSpace(lookupStr(r, "cons"))
			}
			var parts []string
			if pros != "" {
				parts = append(parts, "Pros: "+pros)
			}
			if cons != "" {
				parts = append(parts, "Cons: "+cons)
			}
			text = strings.Join(parts, "\n")
		}

		rec.Review = domain.NewReview(text, rating)

		// SourceID → prefer explicit; else a stable UUIDv5 over the content.
		if s := firstNonEmptyAlias(r, reviewAliases, "source_id"); s != nil {
			rec.SourceID = s
		} else {
			sig := strings.Join([]string{
				deref(rec.Author), deref(rec.Title), text, deref(rec.Lang),
				fmt.Sprintf("%.3f", *score),
			}, "|")
			id := uuid.NewSHA1(sourceIDNamespace, []byte(sig)).String()
			rec.SourceID = &id
		}

		if raw, err := json.Marshal(r); err == nil {
			rec.RawJSON = raw
		} else {
			log.Error().Err(err).Str("context", "mapReviews").Msg("marshal review failed")
		}

		out = append(out, rec)
	}
	return out, skipped
}
