package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reddigest/internal/budget"
	"reddigest/internal/model"
	"reddigest/pkg/llm"
)

// minRefitTokens keeps at least a sliver of content budget after the
// provider forces a refit.
const minRefitTokens = 50

type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	CallTimeout    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		CallTimeout:    60 * time.Second,
	}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	d := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = d.InitialBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = d.MaxBackoff
	}
	if p.CallTimeout <= 0 {
		p.CallTimeout = d.CallTimeout
	}
	return p
}

// summarize fits the items to the budget, sends the prompt and returns
// the completion text, the IDs behind its markers and whether content
// was cut. When the provider still rejects the prompt as too large, the
// budget is halved once, the items refitted and the call tried one more
// time.
func (r *Runner) summarize(ctx context.Context, subreddit string, items []model.ContentItem) (string, []string, []model.ContentItem, bool, error) {
	b := r.Budget
	fitted, truncated := budget.Fit(items, b)
	prompt, citedIDs := buildPrompt(subreddit, fitted)

	text, err := r.complete(ctx, prompt)
	if err != nil && llm.IsContextLimit(err) {
		slog.Warn("provider rejected prompt as too large, refitting at half budget",
			"provider", r.Client.Name(), "max_tokens", b.MaxTokens)

		b.MaxTokens /= 2
		if b.Limit() <= 0 {
			b.MaxTokens = b.ReservedForResponse + minRefitTokens
		}

		fitted, _ = budget.Fit(items, b)
		truncated = true
		prompt, citedIDs = buildPrompt(subreddit, fitted)

		text, err = r.completeOnce(ctx, prompt)
		if err != nil {
			err = fmt.Errorf("%s completion failed after refit: %w", r.Client.Name(), err)
		}
	}
	if err != nil {
		return "", nil, nil, false, err
	}

	return text, citedIDs, fitted, truncated, nil
}

// complete calls the provider with retry and exponential backoff.
// Context-limit errors are returned as-is so the caller can refit;
// non-retryable errors fail immediately.
func (r *Runner) complete(ctx context.Context, prompt string) (string, error) {
	policy := r.Retry.withDefaults()
	backoff := policy.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		text, err := r.completeOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if llm.IsContextLimit(err) {
			return "", err
		}
		if !llm.IsRetryable(err) {
			return "", err
		}
		if attempt == policy.MaxAttempts {
			break
		}

		slog.Warn("provider call failed, retrying",
			"provider", r.Client.Name(), "attempt", attempt, "backoff", backoff.String(), "error", err)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return "", ctx.Err()
		}

		backoff *= 2
		if backoff > policy.MaxBackoff {
			backoff = policy.MaxBackoff
		}
	}

	return "", fmt.Errorf("%s completion failed after %d attempts: %w", r.Client.Name(), policy.MaxAttempts, lastErr)
}

func (r *Runner) completeOnce(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.Retry.withDefaults().CallTimeout)
	defer cancel()
	return r.Client.Complete(callCtx, prompt)
}
