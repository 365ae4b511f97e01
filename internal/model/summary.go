package model

import (
	"encoding/json"
	"time"
)

type Footnote struct {
	Index     int    `json:"index"`
	ItemID    string `json:"item_id"`
	Permalink string `json:"permalink"`
}

// FootnoteMap assigns 1-based footnote indices to cited items in
// first-seen order. Append-only; re-citing an item reuses its index.
type FootnoteMap struct {
	footnotes   []Footnote
	indexByItem map[string]int
}

func (m *FootnoteMap) Add(itemID, permalink string) int {
	if idx, ok := m.indexByItem[itemID]; ok {
		return idx
	}
	if m.indexByItem == nil {
		m.indexByItem = make(map[string]int)
	}
	idx := len(m.footnotes) + 1
	m.footnotes = append(m.footnotes, Footnote{Index: idx, ItemID: itemID, Permalink: permalink})
	m.indexByItem[itemID] = idx
	return idx
}

func (m *FootnoteMap) IndexFor(itemID string) (int, bool) {
	idx, ok := m.indexByItem[itemID]
	return idx, ok
}

func (m *FootnoteMap) Footnotes() []Footnote {
	return m.footnotes
}

func (m *FootnoteMap) Len() int {
	return len(m.footnotes)
}

func (m FootnoteMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.footnotes)
}

func (m *FootnoteMap) UnmarshalJSON(data []byte) error {
	var footnotes []Footnote
	if err := json.Unmarshal(data, &footnotes); err != nil {
		return err
	}
	m.footnotes = footnotes
	m.indexByItem = make(map[string]int, len(footnotes))
	for _, f := range footnotes {
		m.indexByItem[f.ItemID] = f.Index
	}
	return nil
}

type SummaryResult struct {
	Text      string      `json:"text"`
	Footnotes FootnoteMap `json:"footnotes"`
	Provider  string      `json:"provider"`
	Model     string      `json:"model"`
	Truncated bool        `json:"truncated"`
}

type RunParams struct {
	Subreddit   string    `json:"subreddit"`
	Hours       int       `json:"hours"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	Clean       bool      `json:"clean"`
	Topics      []string  `json:"topics,omitempty"`
	ItemCount   int       `json:"item_count"`
	Truncated   bool      `json:"truncated"`
	GeneratedAt time.Time `json:"generated_at"`
}

type DigestRecord struct {
	ID          int64
	Subreddit   string
	Hours       int
	Provider    string
	Model       string
	Topics      []string
	ItemCount   int
	Truncated   bool
	SummaryText string
	Footnotes   []Footnote
	CreatedAt   time.Time
}

type SubredditStat struct {
	Name        string
	DigestCount int
	LastDigest  time.Time
}
