// Package retry runs fallible network operations with a bounded number of
// attempts and a fixed delay between them.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Operation   string
	// Notify receives one Notice before every non-final retry. When nil the
	// notice is logged at WARN.
	Notify func(Notice)
}

type Notice struct {
	Operation   string
	Attempt     int
	MaxAttempts int
	Delay       time.Duration
	Err         error
}

func (n Notice) String() string {
	op := n.Operation
	if op == "" {
		op = "operation"
	}
	return fmt.Sprintf("%s failed (attempt %d/%d): %v; retrying in %s", op, n.Attempt, n.MaxAttempts, n.Err, n.Delay)
}

// Do executes op until it succeeds or p.MaxAttempts is reached. The error of
// the last attempt is returned as is.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.Delay
	if delay < 0 {
		delay = 0
	}

	var zero T
	for attempt := 1; ; attempt++ {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		if attempt >= attempts {
			return zero, err
		}

		notice := Notice{Operation: p.Operation, Attempt: attempt, MaxAttempts: attempts, Delay: delay, Err: err}
		if p.Notify != nil {
			p.Notify(notice)
		} else {
			slog.Warn(notice.String(), "component", "retry", "operation", p.Operation, "attempt", attempt)
		}

		if err := wait(ctx, delay); err != nil {
			return zero, err
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
