package llm

import (
	"context"
	"strings"
	"time"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
)

const (
	defaultMaxRetries  = 3
	defaultBackoffBase = 5 * time.Second
)

// RetryConfig holds retry behavior for rate-limited calls.
type RetryConfig struct {
	MaxRetries  int
	BackoffBase time.Duration
}

// quotaSignatures are the substrings that mark a response as a rate-limit or
// quota failure. Matching is case-insensitive.
var quotaSignatures = []string{
	"quota",
	"rate limit",
	"rate_limit",
	"resource exhausted",
	"too many requests",
}

// IsQuotaMessage reports whether an API error message looks like a
// rate-limit or quota rejection.
func IsQuotaMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, sig := range quotaSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

// retryWithBackoff retries fn on rate-limit errors only, waiting
// BackoffBase × attempt between tries. Any other error returns immediately.
func (c *Client) retryWithBackoff(ctx context.Context, fn func() (string, error)) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retry.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		text, err := fn()
		if err == nil {
			return text, nil
		}

		if !domain.IsRateLimited(err) {
			return "", err
		}
		lastErr = err

		if attempt == c.retry.MaxRetries {
			break
		}

		delay := c.retry.BackoffBase * time.Duration(attempt)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	return "", lastErr
}
