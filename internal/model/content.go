package model

import "time"

const (
	KindPost    = "post"
	KindComment = "comment"
)

type ContentItem struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title,omitempty"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	Permalink string    `json:"permalink"`
	Body      string    `json:"body"`
	ParentID  string    `json:"parent_id,omitempty"`
	Score     int       `json:"score"`
}

// RawText is the item's original unprocessed text. Posts carry their
// title in addition to the body; topic filtering matches against this.
func (c ContentItem) RawText() string {
	if c.Title == "" {
		return c.Body
	}
	return c.Title + "\n" + c.Body
}

type ContentWindow struct {
	Subreddit string        `json:"subreddit"`
	Since     time.Time     `json:"since"`
	Until     time.Time     `json:"until"`
	Items     []ContentItem `json:"items"`
}

type RawSnapshot struct {
	Subreddit   string        `json:"subreddit"`
	WindowStart time.Time     `json:"window_start"`
	WindowEnd   time.Time     `json:"window_end"`
	ItemCount   int           `json:"item_count"`
	Items       []ContentItem `json:"items"`
}
