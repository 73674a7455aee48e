package utils

import (
	"context"
	"time"
)

// DefaultStoreTimeout bounds a single round trip to a snapshot store.
const DefaultStoreTimeout = 3 * time.Second

func WithStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return WithTimeout(ctx, DefaultStoreTimeout)
}

// WithTimeout is context.WithTimeout that leaves ctx alone when d is not positive.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, d)
}
