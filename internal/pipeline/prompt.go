package pipeline

import (
	"fmt"
	"strings"

	"reddigest/internal/model"
)

// buildPrompt lays the items out as numbered posts and comments and
// returns the prompt together with item IDs aligned to the numbering,
// so a [k] marker in the response refers to citedIDs[k-1].
func buildPrompt(subreddit string, items []model.ContentItem) (string, []string) {
	var posts, comments []model.ContentItem
	for _, item := range items {
		if item.Kind == model.KindComment {
			comments = append(comments, item)
		} else {
			posts = append(posts, item)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Summarize the following content from r/%s. Include key themes, notable discussions, and overall sentiment.\n", subreddit)
	sb.WriteString("Cite the posts and comments you draw on using their bracketed numbers, for example [3]. Use only numbers that appear below.\n")

	citedIDs := make([]string, 0, len(items))
	n := 0

	if len(posts) > 0 {
		sb.WriteString("\nPOSTS:\n")
		for _, p := range posts {
			n++
			citedIDs = append(citedIDs, p.ID)
			fmt.Fprintf(&sb, "\n[%d] %s (by u/%s, score %d)\n", n, p.Title, p.Author, p.Score)
			if p.Body != "" {
				sb.WriteString(p.Body)
				sb.WriteString("\n")
			}
		}
	}

	if len(comments) > 0 {
		sb.WriteString("\nCOMMENTS:\n")
		for _, c := range comments {
			n++
			citedIDs = append(citedIDs, c.ID)
			fmt.Fprintf(&sb, "\n[%d] u/%s (score %d): %s\n", n, c.Author, c.Score, c.Body)
		}
	}

	return sb.String(), citedIDs
}
