package source

import (
	"context"
	"math/rand/v2"
	"time"

	perr "tubeport/internal/platform/errors"
)

// Retry re-runs transient provider failures with jittered exponential backoff
type Retry struct {
	Attempts int           // total tries, at least 1
	Base     time.Duration // first backoff
	Max      time.Duration // backoff cap

	sleep func(context.Context, time.Duration) error
}

// DefaultRetry is used when the module config leaves retries unset
var DefaultRetry = Retry{Attempts: 3, Base: 2 * time.Second, Max: 30 * time.Second}

func (r Retry) do(ctx context.Context, fn func(context.Context) error) error {
	attempts := max(r.Attempts, 1)
	base := r.Base
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	limit := r.Max
	if limit <= 0 {
		limit = 30 * time.Second
	}
	sleep := r.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var last error
	for i := range attempts {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		last = err
		if !perr.Retryable(err) || ctx.Err() != nil {
			return last
		}
		if i == attempts-1 {
			break
		}
		d := min(base<<i, limit)
		j := d/2 + time.Duration(rand.Int64N(int64(d/2)+1))
		if se := sleep(ctx, j); se != nil {
			return se
		}
	}
	return last
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
