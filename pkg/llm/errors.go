package llm

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
)

// IsRetryable reports whether a backend error is transient: timeouts,
// connection failures, rate limiting, or server-side errors. Context
// limit errors are never retryable as-is; they need a smaller prompt.
func IsRetryable(err error) bool {
	if err == nil || IsContextLimit(err) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if code, ok := statusCode(err); ok {
		return code == 429 || code >= 500
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit", "rate_limit", "overloaded",
		"timeout", "timed out",
		"connection refused", "connection reset",
		"temporarily unavailable",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

// IsContextLimit reports whether the backend rejected the request for
// being too large for the model's context window.
func IsContextLimit(err error) bool {
	if err == nil {
		return false
	}

	if code, ok := statusCode(err); ok && code == 413 {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"context length", "context_length", "maximum context",
		"prompt is too long", "request too large", "too many tokens",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

func statusCode(err error) (int, bool) {
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return openaiErr.StatusCode, true
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode, true
	}

	return 0, false
}
