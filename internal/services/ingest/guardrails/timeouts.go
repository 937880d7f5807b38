// Package guardrails bounds each pipeline step with its own time budget
package guardrails

import (
	"context"
	"time"
)

// Timeouts are per video budgets. Zero means no extra limit at that level
type Timeouts struct {
	// Video caps everything done for one list entry
	Video time.Duration

	// Fetch caps each provider call
	Fetch time.Duration

	// Upload caps asset creation including the media upload
	Upload time.Duration

	// Publish caps a single comment publish, retries included
	Publish time.Duration

	// DB caps each ledger write
	DB time.Duration
}

// ForVideo returns the context for one entry
func ForVideo(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Video)
}

// ForFetch returns the context for one provider call
func ForFetch(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Fetch)
}

// ForUpload returns the context for asset creation
func ForUpload(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Upload)
}

// ForPublish returns the context for one publish call
func ForPublish(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Publish)
}

// ForDB returns the context for one ledger write
func ForDB(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.DB)
}

// Remaining returns the time left on ctx, zero when there is no deadline or it passed
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return 0
}

// withChildTimeout takes the tighter of d and the parent's remainder and never extends the parent
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
