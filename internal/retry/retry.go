package retry

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMaxRetries is how many times a transient failure is re-attempted
	// after the initial call.
	DefaultMaxRetries = 3
	// DefaultBase is the backoff unit: the wait before retry n is
	// base * 2^n (1s, 2s, 4s with the default).
	DefaultBase = time.Second
)

// Caller wraps calls to external services with bounded exponential-backoff
// retry for transient failures. Non-transient failures return immediately.
type Caller struct {
	MaxRetries int
	Base       time.Duration
	Logger     *zap.Logger
}

func New(logger *zap.Logger) *Caller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Caller{
		MaxRetries: DefaultMaxRetries,
		Base:       DefaultBase,
		Logger:     logger,
	}
}

// Do invokes fn, retrying transient failures up to MaxRetries times. The
// backoff wait aborts as soon as ctx is cancelled.
func (c *Caller) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	var last error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		last = fn(ctx)
		if last == nil {
			return nil
		}
		if !IsTransient(last) {
			return last
		}
		if attempt >= c.MaxRetries {
			c.Logger.Warn("retries exhausted",
				zap.String("op", op),
				zap.Int("attempts", attempt+1),
				zap.Error(last))
			return last
		}

		wait := c.Base << attempt
		c.Logger.Info("transient failure, backing off",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(last))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// DoValue is Do for calls that produce a value.
func DoValue[T any](ctx context.Context, c *Caller, op string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := c.Do(ctx, op, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
