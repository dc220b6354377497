// Package context provides small context helpers used by the railyard runner.
package context

import (
	"context"
	"time"
)

// WithOptionalDeadline wraps the parent with a timeout when deadline > 0.
// A zero deadline returns the parent unchanged with a no-op cancel.
func WithOptionalDeadline(parent context.Context, deadline time.Duration) (context.Context, context.CancelFunc) {
	if deadline <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, deadline)
}

// IsCanceled returns true if the context has been canceled
func IsCanceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// IsTimedOut returns true if the context was canceled due to a timeout
func IsTimedOut(ctx context.Context) bool {
	return ctx.Err() == context.DeadlineExceeded
}
