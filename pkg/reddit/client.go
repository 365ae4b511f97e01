package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"reddigest/internal/model"
)

const (
	publicBaseURL = "https://www.reddit.com"
	oauthBaseURL  = "https://oauth.reddit.com"
	tokenURL      = "https://www.reddit.com/api/v1/access_token"

	pageLimit       = 100
	maxCommentPages = 5
)

// ErrUnavailable marks the source as unreachable or rate limited,
// distinct from a window that simply has no content.
var ErrUnavailable = errors.New("reddit unavailable")

type Config struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient uses the OAuth application-only flow when credentials are
// configured and falls back to the public JSON endpoints otherwise.
func NewClient(cfg Config) *Client {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "reddigest/1.0"
	}

	if cfg.ClientID == "" {
		return &Client{
			httpClient: &http.Client{Timeout: 30 * time.Second},
			baseURL:    publicBaseURL,
			userAgent:  userAgent,
		}
	}

	conf := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: 30 * time.Second})

	return &Client{
		httpClient: conf.Client(ctx),
		baseURL:    oauthBaseURL,
		userAgent:  userAgent,
	}
}

func (c *Client) Name() string {
	return "reddit"
}

// Fetch returns posts and comments from the subreddit whose creation
// time falls in [since, until], merged, deduplicated and sorted newest
// first.
func (c *Client) Fetch(ctx context.Context, subreddit string, since, until time.Time) ([]model.ContentItem, error) {
	posts, err := c.fetchListing(ctx, fmt.Sprintf("/r/%s/new", subreddit), since, 1)
	if err != nil {
		return nil, err
	}

	comments, err := c.fetchListing(ctx, fmt.Sprintf("/r/%s/comments", subreddit), since, maxCommentPages)
	if err != nil {
		return nil, err
	}

	merged := make([]model.ContentItem, 0, len(posts)+len(comments))
	seen := make(map[string]struct{}, len(posts)+len(comments))

	for _, item := range append(posts, comments...) {
		if item.CreatedAt.Before(since) || item.CreatedAt.After(until) {
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		merged = append(merged, item)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return merged, nil
}

func (c *Client) fetchListing(ctx context.Context, path string, cutoff time.Time, maxPages int) ([]model.ContentItem, error) {
	var items []model.ContentItem
	after := ""

	for page := 0; page < maxPages; page++ {
		l, err := c.getPage(ctx, path, after)
		if err != nil {
			return nil, err
		}

		if len(l.Data.Children) == 0 {
			break
		}

		for _, ch := range l.Data.Children {
			items = append(items, ch.Data.toItem(ch.Kind))
		}

		oldest := l.Data.Children[len(l.Data.Children)-1].Data
		if time.Unix(int64(oldest.CreatedUTC), 0).Before(cutoff) {
			break
		}

		after = l.Data.After
		if after == "" {
			break
		}
	}

	return items, nil
}

func (c *Client) getPage(ctx context.Context, path, after string) (*listing, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(pageLimit))
	q.Set("raw_json", "1")
	if after != "" {
		q.Set("after", after)
	}

	endpoint := fmt.Sprintf("%s%s.json?%s", c.baseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: rate limited", ErrUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var raw listing
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("reddit decode: %w", err)
	}

	return &raw, nil
}
