package http

import (
	"context"
	"net/http"
	"time"
)

// fetchWithRetry performs fetch with backoff retries on transport errors
// and 5xx responses; other statuses return immediately. It makes one
// initial attempt plus one retry per delay. A final-attempt 5xx response
// is handed back unconsumed for the caller to interpret.
func fetchWithRetry(ctx context.Context, delays []time.Duration, fetch func(context.Context) (*http.Response, error)) (*http.Response, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := fetch(ctx)
		if err == nil {
			if resp.StatusCode < 500 || attempt == maxAttempts-1 {
				return resp, nil
			}
			// Release the failed attempt before retrying
			resp.Body.Close()
		} else {
			lastErr = err
			if attempt == maxAttempts-1 {
				break
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
