package notify

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Throttled caps the outbound send rate of another Notifier. Callers block
// until a slot frees up or their context ends.
type Throttled struct {
	next    Notifier
	limiter *rate.Limiter
}

var _ Notifier = (*Throttled)(nil)

// NewThrottled admits perMinute sends per minute with the given burst.
// A non-positive perMinute disables throttling.
func NewThrottled(next Notifier, perMinute, burst int) *Throttled {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttled{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (t *Throttled) Send(ctx context.Context, msg Message) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for send slot: %w", err)
	}
	return t.next.Send(ctx, msg)
}
