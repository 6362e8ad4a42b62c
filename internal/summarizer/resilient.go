package summarizer

import (
	"context"
	"time"

	"github.com/sovanghoshh/minutemate/internal/retry"
)

const defaultAttemptTimeout = 60 * time.Second

// Resilient wraps a Summarizer with retry logic and a bounded per-attempt
// timeout, so one slow or flaky generation cannot stall a whole sweep.
type Resilient struct {
	inner       Summarizer
	retryConfig retry.RetryConfig
	timeout     time.Duration
}

// NewResilient wraps inner with the LLM retry profile.
func NewResilient(inner Summarizer) *Resilient {
	return NewResilientWithConfig(inner, retry.LLMRetryConfig(), defaultAttemptTimeout)
}

// NewResilientWithConfig wraps inner with an explicit retry configuration
// and per-attempt timeout.
func NewResilientWithConfig(inner Summarizer, config retry.RetryConfig, timeout time.Duration) *Resilient {
	return &Resilient{
		inner:       inner,
		retryConfig: config,
		timeout:     timeout,
	}
}

// Summarize runs the generation with retries. Each attempt gets its own
// deadline; the parent context still cancels the whole operation.
func (r *Resilient) Summarize(ctx context.Context, prompt string) (string, error) {
	var response string
	result := retry.RetryWithBackoffAndReason(ctx, r.retryConfig, func() (error, string) {
		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		text, err := r.inner.Summarize(attemptCtx, prompt)
		if err != nil {
			return err, err.Error()
		}
		response = text
		return nil, "success"
	})

	if !result.Success {
		return "", result.LastError
	}
	return response, nil
}
