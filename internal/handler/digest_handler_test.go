package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"reddigest/internal/model"
)

type fakeDigestStore struct {
	digests    []model.DigestRecord
	total      int
	latest     *model.DigestRecord
	byID       *model.DigestRecord
	subreddits []model.SubredditStat
	err        error
}

func (f *fakeDigestStore) GetDigests(subreddit string, limit, offset int) ([]model.DigestRecord, error) {
	return f.digests, f.err
}

func (f *fakeDigestStore) GetDigestTotal(subreddit string) (int, error) {
	return f.total, f.err
}

func (f *fakeDigestStore) GetLatestDigest(subreddit string) (*model.DigestRecord, error) {
	return f.latest, f.err
}

func (f *fakeDigestStore) GetDigestByID(id int64) (*model.DigestRecord, error) {
	return f.byID, f.err
}

func (f *fakeDigestStore) GetSubreddits() ([]model.SubredditStat, error) {
	return f.subreddits, f.err
}

func newTestRouter(store DigestStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewDigestHandler(store)
	r.GET("/digests", h.GetDigests)
	r.GET("/digests/latest", h.GetLatestDigest)
	r.GET("/digest/:id", h.GetDigest)
	r.GET("/subreddits", h.GetSubreddits)
	r.GET("/health", h.GetHealth)
	return r
}

func sampleDigest(id int64) model.DigestRecord {
	return model.DigestRecord{
		ID:          id,
		Subreddit:   "golang",
		Hours:       24,
		Provider:    "openai",
		Model:       "gpt-4o",
		ItemCount:   12,
		SummaryText: "Busy day in r/golang [1].",
		Footnotes: []model.Footnote{
			{Index: 1, ItemID: "t3_aaa", Permalink: "https://www.reddit.com/r/golang/comments/aaa/"},
		},
		CreatedAt: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestGetDigests_ReturnsLatestAndHistory(t *testing.T) {
	store := &fakeDigestStore{
		digests: []model.DigestRecord{sampleDigest(2), sampleDigest(1)},
		total:   2,
	}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/digests?subreddit=golang&limit=10&offset=0", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res DigestsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, int64(2), res.Latest.ID)
	assert.Equal(t, 1, len(res.History))
	assert.Equal(t, int64(1), res.History[0].ID)
	assert.Equal(t, "Busy day in r/golang [1].", res.Latest.Summary)
	assert.Equal(t, 1, len(res.Latest.Footnotes))
}

func TestGetDigests_Empty(t *testing.T) {
	store := &fakeDigestStore{}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/digests", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res DigestsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 10, res.Limit)
	assert.Equal(t, 0, len(res.History))
}

func TestGetDigests_DBError(t *testing.T) {
	store := &fakeDigestStore{err: errors.New("DB down")}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/digests", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetLatestDigest_Found(t *testing.T) {
	d := sampleDigest(7)
	store := &fakeDigestStore{latest: &d}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/digests/latest?subreddit=golang", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res DigestResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, int64(7), res.ID)
	assert.Equal(t, "golang", res.Subreddit)
	assert.Equal(t, "2024-03-15T12:00:00Z", res.CreatedAt)
}

func TestGetLatestDigest_NotFound(t *testing.T) {
	store := &fakeDigestStore{}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/digests/latest", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDigest_Found(t *testing.T) {
	d := sampleDigest(3)
	store := &fakeDigestStore{byID: &d}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/digest/3", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res DigestResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, int64(3), res.ID)
	assert.Equal(t, "t3_aaa", res.Footnotes[0].ItemID)
}

func TestGetDigest_NotFound(t *testing.T) {
	store := &fakeDigestStore{}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/digest/999", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDigest_InvalidID(t *testing.T) {
	store := &fakeDigestStore{}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/digest/abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSubreddits(t *testing.T) {
	store := &fakeDigestStore{
		subreddits: []model.SubredditStat{
			{Name: "golang", DigestCount: 5, LastDigest: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)},
		},
	}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/subreddits", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res []SubredditResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, "golang", res[0].Name)
	assert.Equal(t, 5, res[0].DigestCount)
}

func TestGetHealth_Healthy(t *testing.T) {
	store := &fakeDigestStore{}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "healthy", res["status"])
}

func TestGetHealth_Unhealthy(t *testing.T) {
	store := &fakeDigestStore{err: errors.New("DB down")}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "unhealthy", res["status"])
}
