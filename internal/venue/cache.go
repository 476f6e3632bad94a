package venue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/punkouter26/PoSeeReview-sub001/pkg/models"
)

// CachedLookup wraps a Lookup with a sqlite TTL cache so repeated pipeline
// runs within the window do not hit the discovery service again.
type CachedLookup struct {
	Inner  Lookup
	DB     *sql.DB
	TTL    time.Duration
	Logger *zap.Logger

	now func() time.Time
}

func NewCachedLookup(inner Lookup, db *sql.DB, logger *zap.Logger) *CachedLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedLookup{
		Inner:  inner,
		DB:     db,
		TTL:    24 * time.Hour,
		Logger: logger,
		now:    time.Now,
	}
}

func (c *CachedLookup) GetVenue(ctx context.Context, id string) (*models.Venue, error) {
	if v := c.cached(ctx, id); v != nil {
		return v, nil
	}

	v, err := c.Inner.GetVenue(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.store(ctx, v); err != nil {
		// A cache write failure must not fail the lookup.
		c.Logger.Warn("venue cache write failed", zap.String("venue_id", id), zap.Error(err))
	}
	return v, nil
}

func (c *CachedLookup) cached(ctx context.Context, id string) *models.Venue {
	row := c.DB.QueryRowContext(ctx, `
		SELECT payload, fetched_at
		FROM venue_cache
		WHERE venue_id = ?
	`, id)

	var payload string
	var fetchedAt time.Time
	if err := row.Scan(&payload, &fetchedAt); err != nil {
		return nil
	}
	if c.now().Sub(fetchedAt) > c.TTL {
		return nil
	}

	var v models.Venue
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return nil
	}
	return &v
}

func (c *CachedLookup) store(ctx context.Context, v *models.Venue) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal venue: %w", err)
	}

	_, err = c.DB.ExecContext(ctx, `
		INSERT INTO venue_cache (venue_id, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(venue_id) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, v.ID, string(payload), c.now())
	if err != nil {
		return fmt.Errorf("upsert venue cache: %w", err)
	}
	return nil
}
