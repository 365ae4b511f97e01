package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"reddigest/internal/model"
)

type DigestStore interface {
	GetDigests(subreddit string, limit, offset int) ([]model.DigestRecord, error)
	GetDigestTotal(subreddit string) (int, error)
	GetLatestDigest(subreddit string) (*model.DigestRecord, error)
	GetDigestByID(id int64) (*model.DigestRecord, error)
	GetSubreddits() ([]model.SubredditStat, error)
}

type DigestHandler struct {
	repository DigestStore
}

func NewDigestHandler(repository DigestStore) *DigestHandler {
	return &DigestHandler{repository: repository}
}

func toDigestResponse(d model.DigestRecord) DigestResponse {
	footnotes := make([]FootnoteResponse, len(d.Footnotes))
	for i, f := range d.Footnotes {
		footnotes[i] = FootnoteResponse{
			Index:     f.Index,
			ItemID:    f.ItemID,
			Permalink: f.Permalink,
		}
	}

	return DigestResponse{
		ID:        d.ID,
		Subreddit: d.Subreddit,
		Hours:     d.Hours,
		Provider:  d.Provider,
		Model:     d.Model,
		Topics:    d.Topics,
		ItemCount: d.ItemCount,
		Truncated: d.Truncated,
		Summary:   d.SummaryText,
		Footnotes: footnotes,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}

func (h *DigestHandler) GetDigests(c *gin.Context) {
	subreddit := c.Query("subreddit")
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	digests, err := h.repository.GetDigests(subreddit, limit, offset)
	if err != nil {
		slog.Error("error fetching digests", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetDigestTotal(subreddit)
	if err != nil {
		slog.Error("error fetching digest total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := DigestsResponse{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		History: []DigestResponse{},
	}

	if len(digests) > 0 {
		latest := toDigestResponse(digests[0])
		res.Latest = &latest
		for _, d := range digests[1:] {
			res.History = append(res.History, toDigestResponse(d))
		}
	}

	c.JSON(http.StatusOK, res)
}

func (h *DigestHandler) GetLatestDigest(c *gin.Context) {
	digest, err := h.repository.GetLatestDigest(c.Query("subreddit"))
	if err != nil {
		slog.Error("error fetching latest digest", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if digest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No digest available"})
		return
	}

	c.JSON(http.StatusOK, toDigestResponse(*digest))
}

func (h *DigestHandler) GetDigest(c *gin.Context) {
	id := c.Param("id")

	digestID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		slog.Error("invalid digest id", "id", id, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid digest id"})
		return
	}

	digest, err := h.repository.GetDigestByID(digestID)
	if err != nil {
		slog.Error("error fetching digest", "error", err, "digest_id", digestID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if digest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Digest not found"})
		return
	}

	c.JSON(http.StatusOK, toDigestResponse(*digest))
}

func (h *DigestHandler) GetSubreddits(c *gin.Context) {
	stats, err := h.repository.GetSubreddits()
	if err != nil {
		slog.Error("error fetching subreddits", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var res []SubredditResponse
	for _, s := range stats {
		res = append(res, SubredditResponse{
			Name:        s.Name,
			DigestCount: s.DigestCount,
			LastDigest:  s.LastDigest.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, res)
}

func (h *DigestHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.GetDigestTotal("")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramLimit := c.Query(name)

	if paramLimit == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramLimit)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", paramLimit, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
