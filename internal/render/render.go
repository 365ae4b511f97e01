package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"reddigest/internal/model"
)

var markerPattern = regexp.MustCompile(`\[(\d+)\]`)

// Render resolves numbered citation markers in summaryText against the
// prompt-ordered citedIDs. Footnote indices are assigned in first-seen
// scan order and re-citations reuse their index; markers are rewritten
// to the assigned indices and a References section is appended. Markers
// pointing outside citedIDs or at items missing from itemsByID stay in
// the text, never reach the references, and are returned in dropped.
func Render(summaryText string, citedIDs []string, itemsByID map[string]model.ContentItem) (*model.SummaryResult, []int) {
	var footnotes model.FootnoteMap
	var dropped []int
	seenDropped := make(map[int]struct{})

	drop := func(n int) {
		if _, ok := seenDropped[n]; ok {
			return
		}
		seenDropped[n] = struct{}{}
		dropped = append(dropped, n)
	}

	rewritten := markerPattern.ReplaceAllStringFunc(summaryText, func(marker string) string {
		n, err := strconv.Atoi(marker[1 : len(marker)-1])
		if err != nil || n < 1 || n > len(citedIDs) {
			drop(n)
			return marker
		}

		id := citedIDs[n-1]
		item, ok := itemsByID[id]
		if !ok {
			drop(n)
			return marker
		}

		idx := footnotes.Add(id, item.Permalink)
		return fmt.Sprintf("[%d]", idx)
	})

	text := strings.TrimSpace(rewritten)

	if footnotes.Len() > 0 {
		var sb strings.Builder
		sb.WriteString(text)
		sb.WriteString("\n\nReferences:\n")
		for _, f := range footnotes.Footnotes() {
			sb.WriteString(fmt.Sprintf("[%d] %s\n", f.Index, f.Permalink))
		}
		text = strings.TrimRight(sb.String(), "\n")
	}

	return &model.SummaryResult{
		Text:      text,
		Footnotes: footnotes,
	}, dropped
}
