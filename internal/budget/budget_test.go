package budget

import (
	"strings"
	"testing"
	"unicode/utf8"

	"reddigest/internal/model"
)

func itemWithBody(id string, chars int) model.ContentItem {
	return model.ContentItem{
		ID:   id,
		Kind: model.KindComment,
		Body: strings.Repeat("x", chars),
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"exact multiple", "abcd", 1},
		{"rounds up", "abcde", 2},
		{"longer text", strings.Repeat("x", 120), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateTokens(tt.input)
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFitScenario(t *testing.T) {
	// Five 30-token items against a 100-token budget with 20 reserved:
	// the first two (60 tokens) fit, the third would overflow.
	b := Budget{MaxTokens: 100, ReservedForResponse: 20}
	items := []model.ContentItem{
		itemWithBody("a", 120),
		itemWithBody("b", 120),
		itemWithBody("c", 120),
		itemWithBody("d", 120),
		itemWithBody("e", 120),
	}

	fitted, truncated := Fit(items, b)

	if !truncated {
		t.Error("expected truncated = true")
	}
	if len(fitted) != 2 {
		t.Fatalf("got %d items, want 2", len(fitted))
	}
	if fitted[0].ID != "a" || fitted[1].ID != "b" {
		t.Errorf("got ids %q %q, want a b", fitted[0].ID, fitted[1].ID)
	}
}

func TestFitAllWithinBudget(t *testing.T) {
	b := Budget{MaxTokens: 1000, ReservedForResponse: 100}
	items := []model.ContentItem{
		itemWithBody("a", 40),
		itemWithBody("b", 40),
	}

	fitted, truncated := Fit(items, b)

	if truncated {
		t.Error("expected truncated = false")
	}
	if len(fitted) != 2 {
		t.Errorf("got %d items, want 2", len(fitted))
	}
}

func TestFitNeverExceedsLimit(t *testing.T) {
	b := Budget{MaxTokens: 50, ReservedForResponse: 10}
	items := []model.ContentItem{
		itemWithBody("a", 60),
		itemWithBody("b", 60),
		itemWithBody("c", 60),
		itemWithBody("d", 60),
	}

	fitted, _ := Fit(items, b)

	total := 0
	for _, item := range fitted {
		total += EstimateTokens(item.Title) + EstimateTokens(item.Body)
	}
	if total > b.Limit() {
		t.Errorf("fitted cost %d exceeds limit %d", total, b.Limit())
	}
}

func TestFitPreservesPrefixOrder(t *testing.T) {
	b := Budget{MaxTokens: 100, ReservedForResponse: 0}
	items := []model.ContentItem{
		itemWithBody("a", 100),
		itemWithBody("b", 100),
		itemWithBody("c", 100),
		itemWithBody("d", 100),
		itemWithBody("e", 100),
	}

	fitted, _ := Fit(items, b)

	for i, item := range fitted {
		if item.ID != items[i].ID {
			t.Errorf("position %d: got %q, want %q", i, item.ID, items[i].ID)
		}
	}
}

func TestFitOversizedFirstItemTruncatedInPlace(t *testing.T) {
	b := Budget{MaxTokens: 100, ReservedForResponse: 20}
	items := []model.ContentItem{
		itemWithBody("big", 1000),
		itemWithBody("b", 40),
	}

	fitted, truncated := Fit(items, b)

	if !truncated {
		t.Error("expected truncated = true")
	}
	if len(fitted) != 1 {
		t.Fatalf("got %d items, want 1", len(fitted))
	}
	if fitted[0].ID != "big" {
		t.Errorf("got id %q, want big", fitted[0].ID)
	}
	if cost := EstimateTokens(fitted[0].Body); cost > b.Limit() {
		t.Errorf("truncated item cost %d exceeds limit %d", cost, b.Limit())
	}
	if !strings.HasPrefix(items[0].Body, fitted[0].Body) {
		t.Error("truncated body is not a prefix of the original")
	}
}

func TestFitOversizedFirstItemAccountsForTitle(t *testing.T) {
	b := Budget{MaxTokens: 100, ReservedForResponse: 20}
	items := []model.ContentItem{
		{ID: "big", Kind: model.KindPost, Title: strings.Repeat("t", 40), Body: strings.Repeat("x", 1000)},
	}

	fitted, truncated := Fit(items, b)

	if !truncated {
		t.Error("expected truncated = true")
	}
	cost := EstimateTokens(fitted[0].Title) + EstimateTokens(fitted[0].Body)
	if cost > b.Limit() {
		t.Errorf("truncated item cost %d exceeds limit %d", cost, b.Limit())
	}
	if fitted[0].Title != items[0].Title {
		t.Error("title should not be cut")
	}
}

func TestFitTruncationKeepsValidUTF8(t *testing.T) {
	b := Budget{MaxTokens: 20, ReservedForResponse: 10}
	items := []model.ContentItem{
		{ID: "big", Kind: model.KindComment, Body: strings.Repeat("é", 200)},
	}

	fitted, _ := Fit(items, b)

	if !utf8.ValidString(fitted[0].Body) {
		t.Error("truncated body is not valid UTF-8")
	}
}

func TestFitEmptyInput(t *testing.T) {
	fitted, truncated := Fit(nil, Budget{MaxTokens: 100, ReservedForResponse: 10})

	if truncated {
		t.Error("expected truncated = false")
	}
	if len(fitted) != 0 {
		t.Errorf("got %d items, want 0", len(fitted))
	}
}
