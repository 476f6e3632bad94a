package sweeper

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/punkouter26/PoSeeReview-sub001/internal/artifact"
	"github.com/punkouter26/PoSeeReview-sub001/internal/comiccache"
)

const (
	DefaultInterval  = 30 * time.Minute
	DefaultGrace     = time.Minute
	DefaultBatchSize = 25

	// maxInterval bounds a misconfigured sweep so expired artifacts never
	// linger more than a day past a cycle.
	maxInterval = 24 * time.Hour
)

// Sweeper is the background loop that reaps expired cache entries and their
// backing artifacts. It never blocks a concurrent generation; a sweep racing
// a regeneration for the same venue resolves last-write-wins on the cache.
type Sweeper struct {
	Cache     *comiccache.Repo
	Artifacts artifact.Store
	Logger    *zap.Logger

	Interval  time.Duration
	Grace     time.Duration
	BatchSize int

	now func() time.Time
}

func New(cache *comiccache.Repo, artifacts artifact.Store, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		Cache:     cache,
		Artifacts: artifacts,
		Logger:    logger,
		Interval:  DefaultInterval,
		Grace:     DefaultGrace,
		BatchSize: DefaultBatchSize,
		now:       time.Now,
	}
}

// Run blocks until ctx is cancelled: initial grace delay, then sweep, drain,
// sleep, repeat. Cancellation is a clean exit, not a failure.
func (s *Sweeper) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	if interval > maxInterval {
		interval = maxInterval
	}

	if s.Grace > 0 {
		if err := sleep(ctx, s.Grace); err != nil {
			return nil
		}
	}

	for {
		swept, err := s.drain(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			// A failed cycle is retried next sweep; nothing user-visible.
			s.Logger.Warn("sweep cycle failed", zap.Error(err))
		} else if swept > 0 {
			s.Logger.Info("sweep complete", zap.Int("removed", swept))
		}

		if err := sleep(ctx, interval); err != nil {
			return nil
		}
	}
}

// drain reaps full batches back to back before the caller sleeps.
func (s *Sweeper) drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := s.sweepOnce(ctx)
		total += n
		if err != nil {
			return total, err
		}
		if n < s.batchSize() {
			return total, nil
		}
	}
}

// sweepOnce reaps one batch. A single item failing to delete is logged and
// skipped rather than aborting the batch.
func (s *Sweeper) sweepOnce(ctx context.Context) (int, error) {
	expired, err := s.Cache.ListExpired(ctx, s.now(), s.batchSize())
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, c := range expired {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		if err := s.Cache.Delete(ctx, c.VenueID); err != nil {
			s.Logger.Warn("expired cache delete failed",
				zap.String("venue_id", c.VenueID), zap.Error(err))
			continue
		}
		if err := s.Artifacts.Delete(ctx, c.ID); err != nil {
			// Cache record is gone; an orphaned object is acceptable.
			s.Logger.Warn("expired artifact delete failed",
				zap.String("comic_id", c.ID), zap.Error(err))
		}
		removed++
	}
	return removed, nil
}

func (s *Sweeper) batchSize() int {
	if s.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return s.BatchSize
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
