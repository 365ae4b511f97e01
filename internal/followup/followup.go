package followup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"reddigest/internal/model"
	"reddigest/internal/store"
	"reddigest/pkg/llm"
)

// ErrNoDigest is returned when a subreddit has no stored runs to ask
// about.
var ErrNoDigest = errors.New("no stored digest")

const (
	maxContextPosts    = 10
	maxContextComments = 20
	maxTitleChars      = 120
	maxBodyChars       = 200
)

// LatestDigest is the stored output of the newest run for a subreddit.
type LatestDigest struct {
	Keys     store.RunKey
	Summary  string
	Params   model.RunParams
	Snapshot model.RawSnapshot
}

// Session answers questions about the most recent stored digest, using
// its summary and raw snapshot as the only context.
type Session struct {
	Store  store.BlobStore
	Client llm.CompletionClient
}

// LoadLatest finds the newest run for the subreddit by parsing the
// timestamps out of the stored summary keys, then loads all three of
// its artifacts.
func LoadLatest(ctx context.Context, blobs store.BlobStore, subreddit string) (*LatestDigest, error) {
	keys, err := blobs.List(ctx, store.SummaryPrefix(subreddit))
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}

	var newest store.RunKey
	found := false
	for _, key := range keys {
		rk, err := store.ParseSummaryKey(key)
		if err != nil {
			continue
		}
		if !found || rk.Timestamp.After(newest.Timestamp) {
			newest = rk
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: r/%s", ErrNoDigest, subreddit)
	}

	summary, err := blobs.Get(ctx, newest.Summary())
	if err != nil {
		return nil, fmt.Errorf("load summary: %w", err)
	}

	rawJSON, err := blobs.Get(ctx, newest.RawData())
	if err != nil {
		return nil, fmt.Errorf("load raw data: %w", err)
	}
	var snapshot model.RawSnapshot
	if err := json.Unmarshal(rawJSON, &snapshot); err != nil {
		return nil, fmt.Errorf("decode raw data: %w", err)
	}

	paramsJSON, err := blobs.Get(ctx, newest.Params())
	if err != nil {
		return nil, fmt.Errorf("load run params: %w", err)
	}
	var params model.RunParams
	if err := json.Unmarshal(paramsJSON, &params); err != nil {
		return nil, fmt.Errorf("decode run params: %w", err)
	}

	return &LatestDigest{
		Keys:     newest,
		Summary:  string(summary),
		Params:   params,
		Snapshot: snapshot,
	}, nil
}

// Ask answers one question against the newest stored digest and appends
// the exchange to the run's transcript artifact.
func (s *Session) Ask(ctx context.Context, subreddit, question string) (string, *LatestDigest, error) {
	digest, err := LoadLatest(ctx, s.Store, subreddit)
	if err != nil {
		return "", nil, err
	}

	slog.Info("answering follow-up question",
		"subreddit", subreddit, "against", digest.Keys.Summary(), "provider", s.Client.Name())

	answer, err := s.Client.Complete(ctx, BuildPrompt(question, digest))
	if err != nil {
		return "", nil, fmt.Errorf("%s completion failed: %w", s.Client.Name(), err)
	}

	if err := s.appendTranscript(ctx, digest.Keys.Followup(), question, answer); err != nil {
		return "", nil, err
	}

	return answer, digest, nil
}

func (s *Session) appendTranscript(ctx context.Context, key, question, answer string) error {
	existing, err := s.Store.Get(ctx, key)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load transcript: %w", err)
	}

	var sb strings.Builder
	sb.Write(existing)
	if len(existing) > 0 {
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "[%s]\nQ: %s\nA: %s\n", time.Now().Format("2006-01-02 15:04:05"), question, answer)

	if err := s.Store.Put(ctx, key, []byte(sb.String())); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	return nil
}

// BuildPrompt combines the stored summary with a capped sample of the
// raw content and the user's question.
func BuildPrompt(question string, digest *LatestDigest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You previously produced this summary of r/%s:\n\n%s\n",
		digest.Params.Subreddit, strings.TrimSpace(digest.Summary))
	sb.WriteString("\nHere is a sample of the content it was based on:\n")

	posts, comments := 0, 0
	for _, item := range digest.Snapshot.Items {
		if item.Kind == model.KindComment {
			if comments >= maxContextComments {
				continue
			}
			comments++
			fmt.Fprintf(&sb, "- comment by u/%s: %s\n", item.Author, truncate(item.Body, maxBodyChars))
		} else {
			if posts >= maxContextPosts {
				continue
			}
			posts++
			fmt.Fprintf(&sb, "- post %q by u/%s: %s\n",
				truncate(item.Title, maxTitleChars), item.Author, truncate(item.Body, maxBodyChars))
		}
	}

	fmt.Fprintf(&sb, "\nQuestion: %s\n\nAnswer using only the summary and content above. Say so plainly if they do not answer the question.", question)
	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut + "..."
}
