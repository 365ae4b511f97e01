package normalize

import (
	"strings"
	"unicode"

	"reddigest/internal/model"
)

// FilterSpec holds lowercase topic strings. An empty spec retains every
// item.
type FilterSpec struct {
	topics []string
}

func NewFilterSpec(topics []string) FilterSpec {
	var cleaned []string
	seen := make(map[string]struct{}, len(topics))

	for _, t := range topics {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		cleaned = append(cleaned, t)
	}

	return FilterSpec{topics: cleaned}
}

func (f FilterSpec) Empty() bool {
	return len(f.topics) == 0
}

func (f FilterSpec) Topics() []string {
	return append([]string(nil), f.topics...)
}

// Matches reports whether any topic is a case-insensitive substring of
// the raw text.
func (f FilterSpec) Matches(raw string) bool {
	if f.Empty() {
		return true
	}

	lower := strings.ToLower(raw)
	for _, t := range f.topics {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// Normalize applies the topic filter and rewrites each surviving item's
// body: full cleaning (lowercase, tokenize, drop stopwords) when clean
// is set, whitespace collapsing otherwise. The filter always evaluates
// the raw pre-clean text. Relative order is preserved and the input is
// never mutated.
func Normalize(window model.ContentWindow, clean bool, filter FilterSpec) []model.ContentItem {
	out := make([]model.ContentItem, 0, len(window.Items))

	for _, item := range window.Items {
		if !filter.Matches(item.RawText()) {
			continue
		}

		normalized := item
		normalized.Title = collapseWhitespace(item.Title)
		if clean {
			normalized.Body = CleanText(item.Body)
		} else {
			normalized.Body = collapseWhitespace(item.Body)
		}

		out = append(out, normalized)
	}

	return out
}

// CleanText lowercases the text, splits it into letter/digit tokens and
// drops English stopwords, joining what remains with single spaces.
func CleanText(s string) string {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var kept []string
	for _, tok := range tokens {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}

	return strings.Join(kept, " ")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
