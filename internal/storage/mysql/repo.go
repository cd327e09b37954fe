package mysql

import (
	"context"
	"database/sql"
	"strings"

	"review_sentiment/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.ReviewRecord) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*10)
	for _, rv := range rs {
		values = append(values, insertReviewsRow)
		args = append(args,
			rv.PropertyID,
			valStr(rv.SourceID),
			valStr(rv.Author),
			rv.Review.Rating(),
			string(rv.Review.Sentiment()),
			valStr(rv.Lang),
			valStr(rv.Title),
			rv.Review.Text(),
			valStr(rv.Source),
			valJSON(rv.RawJSON),
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, id int64, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, id, status, reason)
	return err
}

func (r *Repo) ListReviews(ctx context.Context, id int64, q domain.ReviewQuery) (domain.ReviewsPage, error) {
	query := listReviewsSelect
	args := []any{id}
	if q.Sentiment != nil {
		query += " AND sentiment = ?"
		args = append(args, string(*q.Sentiment))
	}
	query += listReviewsOrder
	args = append(args, q.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	defer rows.Close()

	out := []domain.ReviewRecord{}
	for rows.Next() {
		var rec domain.ReviewRecord
		var (
			sourceID sql.NullString
			author   sql.NullString
			rating   float64
			lang     sql.NullString
			title    sql.NullString
			text     string
			source   sql.NullString
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.PropertyID,
			&sourceID,
			&author,
			&rating,
			&lang,
			&title,
			&text,
			&source,
			&rec.CreatedAt,
		); err != nil {
			return domain.ReviewsPage{}, err
		}

		// the stored sentiment column is for filtering; the in-memory label
		// is always derived from the rating
		rec.Review = domain.NewReview(text, rating)
		rec.SourceID = nullStr(sourceID)
		rec.Author = nullStr(author)
		rec.Lang = nullStr(lang)
		rec.Title = nullStr(title)
		rec.Source = nullStr(source)

		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.ReviewsPage{Items: out}, nil
}

func (r *Repo) SummarizeSentiment(ctx context.Context, id int64) (domain.SentimentSummary, error) {
	rows, err := r.db.QueryContext(ctx, summarizeSQL, id)
	if err != nil {
		return domain.SentimentSummary{}, err
	}
	defer rows.Close()

	sum := domain.SentimentSummary{PropertyID: id, Counts: map[domain.Sentiment]int64{}}
	var ratingTotal float64
	for rows.Next() {
		var (
			label string
			n     int64
			total float64
		)
		if err := rows.Scan(&label, &n, &total); err != nil {
			return domain.SentimentSummary{}, err
		}
		sum.Counts[domain.Sentiment(label)] = n
		sum.Total += n
		ratingTotal += total
	}
	if err := rows.Err(); err != nil {
		return domain.SentimentSummary{}, err
	}
	if sum.Total == 0 {
		return domain.SentimentSummary{}, domain.ErrNotFound
	}
	sum.AverageRating = ratingTotal / float64(sum.Total)
	return sum, nil
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
