package handler

type FootnoteResponse struct {
	Index     int    `json:"index"`
	ItemID    string `json:"item_id"`
	Permalink string `json:"permalink"`
}

type DigestResponse struct {
	ID        int64              `json:"id"`
	Subreddit string             `json:"subreddit"`
	Hours     int                `json:"hours"`
	Provider  string             `json:"provider"`
	Model     string             `json:"model"`
	Topics    []string           `json:"topics"`
	ItemCount int                `json:"item_count"`
	Truncated bool               `json:"truncated"`
	Summary   string             `json:"summary"`
	Footnotes []FootnoteResponse `json:"footnotes"`
	CreatedAt string             `json:"created_at"`
}

type DigestsResponse struct {
	Latest  *DigestResponse  `json:"latest"`
	History []DigestResponse `json:"history"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type SubredditResponse struct {
	Name        string `json:"name"`
	DigestCount int    `json:"digest_count"`
	LastDigest  string `json:"last_digest"`
}
