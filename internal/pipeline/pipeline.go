package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reddigest/internal/budget"
	"reddigest/internal/model"
	"reddigest/internal/normalize"
	"reddigest/internal/render"
	"reddigest/internal/store"
	"reddigest/pkg/llm"
)

// ErrNoContent marks a window that produced nothing to summarize after
// filtering. Callers treat it as a clean no-op, not a failure.
var ErrNoContent = errors.New("no content in window")

// Source fetches subreddit content for a time window.
type Source interface {
	Fetch(ctx context.Context, subreddit string, since, until time.Time) ([]model.ContentItem, error)
	Name() string
}

// BlobStore persists run artifacts.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
}

// DigestSaver archives completed digests, assigning the record ID.
type DigestSaver interface {
	SaveDigest(record *model.DigestRecord) error
}

// Runner wires one summarization run end to end. Store and Archive may
// be nil; a nil Store skips artifact persistence and a nil Archive
// skips digest archiving.
type Runner struct {
	Source   Source
	Client   llm.CompletionClient
	Store    BlobStore
	Archive  DigestSaver
	Budget   budget.Budget
	Retry    RetryPolicy
	Location *time.Location
}

type Request struct {
	Subreddit string
	Hours     int
	Clean     bool
	Topics    []string
}

type Result struct {
	Summary      *model.SummaryResult
	FetchedCount int
	ItemCount    int
	Dropped      []int
	Keys         *store.RunKey
}

func (r *Runner) location() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.Local
}

// Run fetches the window, normalizes and fits it, asks the provider for
// a summary, resolves citations and persists the run artifacts.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Subreddit == "" {
		return nil, errors.New("subreddit is required")
	}
	if req.Hours <= 0 {
		return nil, fmt.Errorf("invalid window: %d hours", req.Hours)
	}

	until := time.Now().In(r.location())
	since := until.Add(-time.Duration(req.Hours) * time.Hour)

	slog.Info("fetching content", "source", r.Source.Name(), "subreddit", req.Subreddit, "hours", req.Hours)

	items, err := r.Source.Fetch(ctx, req.Subreddit, since, until)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", req.Subreddit, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	window := model.ContentWindow{Subreddit: req.Subreddit, Since: since, Until: until, Items: items}
	normalized := normalize.Normalize(window, req.Clean, normalize.NewFilterSpec(req.Topics))

	slog.Info("normalized window",
		"subreddit", req.Subreddit, "fetched", len(items), "kept", len(normalized), "clean", req.Clean)

	if len(normalized) == 0 {
		return nil, fmt.Errorf("%w: r/%s over %dh", ErrNoContent, req.Subreddit, req.Hours)
	}

	text, citedIDs, fitted, truncated, err := r.summarize(ctx, req.Subreddit, normalized)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.ContentItem, len(fitted))
	for _, item := range fitted {
		byID[item.ID] = item
	}

	summary, dropped := render.Render(text, citedIDs, byID)
	summary.Provider = r.Client.Name()
	summary.Model = r.Client.Model()
	summary.Truncated = truncated

	if len(dropped) > 0 {
		slog.Warn("dropped citation markers with no matching source", "markers", dropped)
	}

	result := &Result{
		Summary:      summary,
		FetchedCount: len(items),
		ItemCount:    len(fitted),
		Dropped:      dropped,
	}

	if r.Store != nil {
		keys, err := r.persist(ctx, req, window, summary, len(fitted))
		if err != nil {
			return nil, err
		}
		result.Keys = keys
	}

	if r.Archive != nil {
		record := &model.DigestRecord{
			Subreddit:   req.Subreddit,
			Hours:       req.Hours,
			Provider:    summary.Provider,
			Model:       summary.Model,
			Topics:      req.Topics,
			ItemCount:   len(fitted),
			Truncated:   summary.Truncated,
			SummaryText: summary.Text,
			Footnotes:   summary.Footnotes.Footnotes(),
		}
		if err := r.Archive.SaveDigest(record); err != nil {
			slog.Error("failed to archive digest", "error", err)
		} else {
			slog.Info("digest archived", "digest_id", record.ID)
		}
	}

	return result, nil
}

// persist writes the three run artifacts under one shared run key.
func (r *Runner) persist(ctx context.Context, req Request, window model.ContentWindow, summary *model.SummaryResult, itemCount int) (*store.RunKey, error) {
	now := time.Now().In(r.location())
	keys := store.NewRunKey(req.Subreddit, req.Hours, now)

	snapshot := model.RawSnapshot{
		Subreddit:   window.Subreddit,
		WindowStart: window.Since,
		WindowEnd:   window.Until,
		ItemCount:   len(window.Items),
		Items:       window.Items,
	}
	rawJSON, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode raw snapshot: %w", err)
	}
	if err := r.Store.Put(ctx, keys.RawData(), rawJSON); err != nil {
		return nil, fmt.Errorf("save raw data: %w", err)
	}

	params := model.RunParams{
		Subreddit:   req.Subreddit,
		Hours:       req.Hours,
		Provider:    summary.Provider,
		Model:       summary.Model,
		Clean:       req.Clean,
		Topics:      req.Topics,
		ItemCount:   itemCount,
		Truncated:   summary.Truncated,
		GeneratedAt: now,
	}
	paramsJSON, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode run params: %w", err)
	}
	if err := r.Store.Put(ctx, keys.Params(), paramsJSON); err != nil {
		return nil, fmt.Errorf("save run params: %w", err)
	}

	if err := r.Store.Put(ctx, keys.Summary(), []byte(summaryDocument(params, summary.Text))); err != nil {
		return nil, fmt.Errorf("save summary: %w", err)
	}

	slog.Info("artifacts saved",
		"summary", keys.Summary(), "raw_data", keys.RawData(), "params", keys.Params())

	return &keys, nil
}

const headerRule = "=================================================="

// summaryDocument formats the summary artifact with a human-readable
// parameter header above the rendered text.
func summaryDocument(params model.RunParams, text string) string {
	var sb strings.Builder
	sb.WriteString(headerRule + "\n")
	sb.WriteString("ANALYSIS PARAMETERS\n")
	sb.WriteString(headerRule + "\n")
	fmt.Fprintf(&sb, "Subreddit: r/%s\n", params.Subreddit)
	fmt.Fprintf(&sb, "Time window: %d hours\n", params.Hours)
	fmt.Fprintf(&sb, "Provider: %s (%s)\n", params.Provider, params.Model)
	fmt.Fprintf(&sb, "Items analyzed: %d\n", params.ItemCount)
	if len(params.Topics) > 0 {
		fmt.Fprintf(&sb, "Topics: %s\n", strings.Join(params.Topics, ", "))
	}
	fmt.Fprintf(&sb, "Text cleaning: %t\n", params.Clean)
	if params.Truncated {
		sb.WriteString("Note: content was truncated to fit the model context\n")
	}
	fmt.Fprintf(&sb, "Generated: %s\n", params.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	sb.WriteString(headerRule + "\n\n")
	sb.WriteString(text)
	sb.WriteString("\n")
	return sb.String()
}
