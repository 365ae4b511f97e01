package budget

import (
	"unicode/utf8"

	"reddigest/internal/model"
)

// CharsPerToken is the approximation ratio used for token estimates.
// Exact counts do not matter here; determinism does.
const CharsPerToken = 4

type Budget struct {
	MaxTokens           int
	ReservedForResponse int
}

// Limit is the token ceiling available to content.
func (b Budget) Limit() int {
	return b.MaxTokens - b.ReservedForResponse
}

// EstimateTokens approximates the token cost of a string as
// ceil(len/CharsPerToken).
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	return (len(s) + CharsPerToken - 1) / CharsPerToken
}

func itemCost(item model.ContentItem) int {
	return EstimateTokens(item.Title) + EstimateTokens(item.Body)
}

// Fit greedily accumulates items in their given order until the next
// item would push the running estimate past the budget limit; everything
// from that point on is dropped. If the very first item alone exceeds
// the limit its body is truncated in place so at least one citable item
// survives. Truncated reports whether anything was dropped or cut.
func Fit(items []model.ContentItem, b Budget) (fitted []model.ContentItem, truncated bool) {
	limit := b.Limit()
	if len(items) == 0 || limit <= 0 {
		return nil, len(items) > 0
	}

	if cost := itemCost(items[0]); cost > limit {
		first := truncateToBudget(items[0], limit)
		return []model.ContentItem{first}, true
	}

	total := 0
	for i, item := range items {
		cost := itemCost(item)
		if total+cost > limit {
			return append([]model.ContentItem(nil), items[:i]...), true
		}
		total += cost
	}

	return append([]model.ContentItem(nil), items...), false
}

// truncateToBudget cuts the item's body so the whole item fits the
// limit, keeping the cut on a rune boundary.
func truncateToBudget(item model.ContentItem, limit int) model.ContentItem {
	bodyTokens := limit - EstimateTokens(item.Title)
	if bodyTokens < 0 {
		bodyTokens = 0
	}

	maxBytes := bodyTokens * CharsPerToken
	if maxBytes >= len(item.Body) {
		return item
	}

	body := item.Body[:maxBytes]
	for len(body) > 0 && !utf8.ValidString(body) {
		body = body[:len(body)-1]
	}

	item.Body = body
	return item
}
