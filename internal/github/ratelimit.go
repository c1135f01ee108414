package github

import (
	"context"
	"time"
)

// RateLimitFetcher is anything that can report the remaining API budget.
type RateLimitFetcher interface {
	RateLimit(ctx context.Context) (*RateLimit, error)
}

// PollRateLimit fetches the rate limit every interval and hands it to report
// until ctx is done. Fetch failures go to onError and polling continues. It
// only reads; it never touches migration state.
func PollRateLimit(ctx context.Context, f RateLimitFetcher, interval time.Duration, report func(RateLimit), onError func(error)) error {
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rl, err := f.RateLimit(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				if onError != nil {
					onError(err)
				}
				continue
			}
			report(*rl)
		}
	}
}
