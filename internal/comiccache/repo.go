package comiccache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/punkouter26/PoSeeReview-sub001/pkg/models"
)

// Repo holds exactly one cached comic per venue id. Upsert replaces the
// record wholesale; the superseded artifact id is discarded, not versioned.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Get(ctx context.Context, venueID string) (*models.Comic, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT venue_id, comic_id, venue_name, narrative, score, panel_count,
		       image_url, generated_at, expires_at
		FROM comic_cache
		WHERE venue_id = ?
	`, venueID)

	var c models.Comic
	if err := row.Scan(&c.VenueID, &c.ID, &c.VenueName, &c.Narrative, &c.Score,
		&c.PanelCount, &c.ImageURL, &c.GeneratedAt, &c.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan comic: %w", err)
	}
	return &c, nil
}

func (r *Repo) Upsert(ctx context.Context, c models.Comic) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO comic_cache (venue_id, comic_id, venue_name, narrative,
			score, panel_count, image_url, generated_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(venue_id) DO UPDATE SET
			comic_id = excluded.comic_id,
			venue_name = excluded.venue_name,
			narrative = excluded.narrative,
			score = excluded.score,
			panel_count = excluded.panel_count,
			image_url = excluded.image_url,
			generated_at = excluded.generated_at,
			expires_at = excluded.expires_at
	`, c.VenueID, c.ID, c.VenueName, c.Narrative, c.Score, c.PanelCount,
		c.ImageURL, c.GeneratedAt, c.ExpiresAt)
	if err != nil {
		return fmt.Errorf("upsert comic: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, venueID string) error {
	if _, err := r.DB.ExecContext(ctx, `
		DELETE FROM comic_cache WHERE venue_id = ?
	`, venueID); err != nil {
		return fmt.Errorf("delete comic: %w", err)
	}
	return nil
}

// ListExpired returns up to limit cache entries whose expiry has passed,
// oldest first, for the sweeper to reap.
func (r *Repo) ListExpired(ctx context.Context, now time.Time, limit int) ([]models.Comic, error) {
	if limit <= 0 {
		limit = 25
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT venue_id, comic_id, venue_name, narrative, score, panel_count,
		       image_url, generated_at, expires_at
		FROM comic_cache
		WHERE expires_at < ?
		ORDER BY expires_at ASC
		LIMIT ?
	`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired: %w", err)
	}
	defer rows.Close()

	out := make([]models.Comic, 0, limit)
	for rows.Next() {
		var c models.Comic
		if err := rows.Scan(&c.VenueID, &c.ID, &c.VenueName, &c.Narrative,
			&c.Score, &c.PanelCount, &c.ImageURL, &c.GeneratedAt, &c.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan expired row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
