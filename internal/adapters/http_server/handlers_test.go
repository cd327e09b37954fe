package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "review_sentiment/internal/adapters/http_server"
	"review_sentiment/internal/app"
	"review_sentiment/internal/domain"
)

type stubRepo struct {
	page      domain.ReviewsPage
	sum       domain.SentimentSummary
	sumErr    error
	lastQuery domain.ReviewQuery
}

func (s *stubRepo) UpsertReviews(context.Context, []domain.ReviewRecord) error { return nil }
func (s *stubRepo) LogMiss(context.Context, int64, int, string) error { return nil }
func (s *stubRepo) ListReviews(_ context.Context, _ int64, q domain.ReviewQuery) (domain.ReviewsPage, error) {
	s.lastQuery = q
	return s.page, nil
}
func (s *stubRepo) SummarizeSentiment(context.Context, int64) (domain.SentimentSummary, error) {
	return s.sum, s.sumErr
}

// noCache always misses.
type noCache struct{}

func (noCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noCache) Set(context.Context, string, any, int) error    { return nil }
func (noCache) Del(context.Context, string) error              { return nil }

func newTestServer(t *testing.T, repo *stubRepo) *httptest.Server {
	t.Helper()
	srv := server.New()
	srv.MountHandlers(&server.Handlers{Q: app.NewQueryService(repo, noCache{}, time.Minute)})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func TestClassify_Scenarios(t *testing.T) {
	ts := newTestServer(t, &stubRepo{})

	for _, tc := range []struct {
		body string
		want domain.Sentiment
	}{
		{`{"text":"Great product!","rating":5}`, domain.Positive},
		{`{"text":"Terrible, broke immediately","rating":1}`, domain.Negative},
		{`{"text":"It was okay","rating":3}`, domain.Neutral},
		{`{"text":"","rating":0}`, domain.Negative},
	} {
		res, err := http.Post(ts.URL+"/v1/reviews/classify", "application/json", strings.NewReader(tc.body))
		require.NoError(t, err)
		var got struct {
			Text      string           `json:"text"`
			Rating    float64          `json:"rating"`
			Sentiment domain.Sentiment `json:"sentiment"`
		}
		require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, tc.want, got.Sentiment, tc.body)
	}
}

func TestClassify_LongTextIsAccepted(t *testing.T) {
	ts := newTestServer(t, &stubRepo{})

	long := strings.Repeat("a", 100_000)
	body, err := json.Marshal(map[string]any{"text": long, "rating": 4})
	require.NoError(t, err)

	res, err := http.Post(ts.URL+"/v1/reviews/classify", "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var got struct {
		Text      string           `json:"text"`
		Sentiment domain.Sentiment `json:"sentiment"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Len(t, got.Text, len(long))
	assert.Equal(t, domain.Positive, got.Sentiment)
}

func TestClassify_RejectsBadInput(t *testing.T) {
	ts := newTestServer(t, &stubRepo{})

	for body, status := range map[string]int{
		`{"text":"no rating"}`:                 http.StatusUnprocessableEntity,
		`{"text":"x","rating":"five"}`:         http.StatusBadRequest,
		`{"text":"x","rating":1,"extra":true}`: http.StatusBadRequest,
		`not json`:                             http.StatusBadRequest,
	} {
		res, err := http.Post(ts.URL+"/v1/reviews/classify", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, status, res.StatusCode, body)
		assert.Equal(t, "application/problem+json", res.Header.Get("Content-Type"), body)
	}
}

func TestListReviews_FilterAndETag(t *testing.T) {
	repo := &stubRepo{page: domain.ReviewsPage{Items: []domain.ReviewRecord{
		{ID: 1, PropertyID: 7, Review: domain.NewReview("Great product!", 5)},
	}}}
	ts := newTestServer(t, repo)

	res, err := http.Get(ts.URL + "/v1/properties/7/reviews?sentiment=positive&limit=10")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotNil(t, repo.lastQuery.Sentiment)
	assert.Equal(t, domain.Positive, *repo.lastQuery.Sentiment)
	assert.Equal(t, 10, repo.lastQuery.Limit)

	var page domain.ReviewsPage
	require.NoError(t, json.NewDecoder(res.Body).Decode(&page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, domain.Positive, page.Items[0].Review.Sentiment())

	etag := res.Header.Get("ETag")
	require.NotEmpty(t, etag)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/properties/7/reviews?sentiment=positive&limit=10", nil)
	req.Header.Set("If-None-Match", etag)
	res2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res2.Body.Close()
	assert.Equal(t, http.StatusNotModified, res2.StatusCode)
}

func TestListReviews_BadParams(t *testing.T) {
	ts := newTestServer(t, &stubRepo{})
	for _, path := range []string{
		"/v1/properties/abc/reviews",
		"/v1/properties/0/reviews",
		"/v1/properties/1/reviews?limit=0",
		"/v1/properties/1/reviews?limit=201",
		"/v1/properties/1/reviews?sentiment=mixed",
	} {
		res, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, path)
	}
}

func TestSentimentSummary(t *testing.T) {
	repo := &stubRepo{sum: domain.SentimentSummary{
		PropertyID:    3,
		Counts:        map[domain.Sentiment]int64{domain.Positive: 2, domain.Negative: 1},
		Total:         3,
		AverageRating: 3.5,
	}}
	ts := newTestServer(t, repo)

	res, err := http.Get(ts.URL + "/v1/properties/3/sentiment")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var sum domain.SentimentSummary
	require.NoError(t, json.NewDecoder(res.Body).Decode(&sum))
	assert.Equal(t, int64(3), sum.Total)
	assert.Equal(t, int64(0), sum.Counts[domain.Neutral])
	assert.Len(t, sum.Counts, 3)
}

func TestSentimentSummary_NotFound(t *testing.T) {
	ts := newTestServer(t, &stubRepo{sumErr: domain.ErrNotFound})
	res, err := http.Get(ts.URL + "/v1/properties/3/sentiment")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &stubRepo{})
	res, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
