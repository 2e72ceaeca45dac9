package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// RetryPolicy controls GetJSON's backoff behavior.
type RetryPolicy struct {
	MaxAttempts int
	// BaseDelay is doubled per attempt with up to one extra second of jitter.
	BaseDelay time.Duration
	// Jitter supplies randomness for backoff spacing; nil uses the package
	// default source.
	Jitter *rand.Rand
}

// DefaultRetryPolicy matches the collectors' historical behavior: three
// attempts with exponential backoff starting at one second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	d := base << uint(attempt)
	jitter := time.Duration(rand.Int63n(int64(time.Second)))
	if p.Jitter != nil {
		jitter = time.Duration(p.Jitter.Int63n(int64(time.Second)))
	}
	return d + jitter
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// GetJSON performs a GET with retries on timeouts, rate limiting, and 5xx
// responses, decoding the body into out on success. Exhausted retries return
// an ErrTransient-tagged error so callers degrade to "no data" for the item.
func GetJSON(ctx context.Context, client *http.Client, url string, policy RetryPolicy, out any) error {
	body, err := GetBody(ctx, client, url, policy)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrParse, err)
	}
	return nil
}

// GetBody performs a GET with the same retry behavior as GetJSON and returns
// the raw response body. Used for HTML endpoints.
func GetBody(ctx context.Context, client *http.Client, url string, policy RetryPolicy) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	var lastErr error
	for attempt := 0; attempt < policy.attempts(); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(policy.delay(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			lastErr = err
			continue
		}

		if retryableStatus(resp.StatusCode) {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			switch resp.StatusCode {
			case http.StatusNotFound:
				return nil, fmt.Errorf("%w: status 404", ErrNotFound)
			case http.StatusUnauthorized, http.StatusForbidden:
				return nil, fmt.Errorf("%w: rejected with status %d", ErrConfiguration, resp.StatusCode)
			default:
				return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
			}
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return body, nil
	}

	return nil, fmt.Errorf("%w: %d attempts exhausted: %w", ErrTransient, policy.attempts(), lastErr)
}
