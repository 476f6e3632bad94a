package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/punkouter26/PoSeeReview-sub001/internal/retry"
	"github.com/punkouter26/PoSeeReview-sub001/pkg/models"
)

// AdmissionThreshold is the minimum score an artifact needs to appear on the
// leaderboard at all.
const AdmissionThreshold = 20

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Store is the region-partitioned, score-ranked index. Entries are only
// discoverable via ordered scans within a partition; rank is the scan
// position, assigned at query time.
type Store struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewStore(db *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{DB: db, Logger: logger}
}

// GetTopEntries scans a region partition from the start and returns up to
// limit entries, best score first. An empty partition is an empty list, not
// an error.
func (s *Store) GetTopEntries(ctx context.Context, region string, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT venue_id, venue_name, address, partition_key, score, image_url, updated_at
		FROM leaderboard
		WHERE partition_key = ?
		ORDER BY row_key ASC
		LIMIT ?
	`, region, limit)
	if err != nil {
		return nil, fmt.Errorf("scan partition: %w", err)
	}
	defer rows.Close()

	out := make([]models.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.VenueID, &e.VenueName, &e.Address, &e.Region,
			&e.Score, &e.ImageURL, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// GetByVenue is the point lookup for a single venue's entry in a region.
// Returns nil when absent.
func (s *Store) GetByVenue(ctx context.Context, region, venueID string) (*models.LeaderboardEntry, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT venue_id, venue_name, address, partition_key, score, image_url, updated_at
		FROM leaderboard
		WHERE partition_key = ? AND venue_id = ?
	`, region, venueID)

	var e models.LeaderboardEntry
	if err := row.Scan(&e.VenueID, &e.VenueName, &e.Address, &e.Region,
		&e.Score, &e.ImageURL, &e.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return &e, nil
}

// Upsert writes an entry under its score-encoded key. A changed score changes
// the key, so the old key is deleted first and the new one inserted. Both
// steps run in one transaction here; on a store without transactions this is
// the documented two-step race window.
func (s *Store) Upsert(ctx context.Context, e models.LeaderboardEntry) error {
	const op = "leaderboard.upsert"

	if e.Score < AdmissionThreshold {
		return retry.Validation(op, fmt.Errorf("score %d below admission threshold %d", e.Score, AdmissionThreshold))
	}
	if e.VenueID == "" || e.Region == "" {
		return retry.Validation(op, errors.New("venue id and region required"))
	}

	newKey := EncodeRowKey(e.Score, e.VenueID)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	var oldKey string
	err = tx.QueryRowContext(ctx, `
		SELECT row_key FROM leaderboard
		WHERE partition_key = ? AND venue_id = ?
	`, e.Region, e.VenueID).Scan(&oldKey)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("lookup existing key: %w", err)
	}

	if oldKey != "" && oldKey != newKey {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM leaderboard WHERE partition_key = ? AND row_key = ?
		`, e.Region, oldKey); err != nil {
			return fmt.Errorf("delete old key: %w", err)
		}
		s.Logger.Debug("leaderboard key moved",
			zap.String("venue_id", e.VenueID),
			zap.String("region", e.Region),
			zap.String("old_key", oldKey),
			zap.String("new_key", newKey))
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO leaderboard (partition_key, row_key, venue_id, venue_name,
			address, score, image_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(partition_key, row_key) DO UPDATE SET
			venue_name = excluded.venue_name,
			address = excluded.address,
			score = excluded.score,
			image_url = excluded.image_url,
			updated_at = excluded.updated_at
	`, e.Region, newKey, e.VenueID, e.VenueName, e.Address, e.Score,
		e.ImageURL, e.UpdatedAt); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	return tx.Commit()
}

// DeleteEntry removes a single (region, venue) entry. Reports whether an
// entry existed.
func (s *Store) DeleteEntry(ctx context.Context, region, venueID string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM leaderboard WHERE partition_key = ? AND venue_id = ?
	`, region, venueID)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteByVenue removes a venue's entries across every region partition.
// A venue id alone does not identify a partition key, so this is a full-index
// operation; takedown depends on it. Returns the number of removed entries.
func (s *Store) DeleteByVenue(ctx context.Context, venueID string) (int, error) {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM leaderboard WHERE venue_id = ?
	`, venueID)
	if err != nil {
		return 0, fmt.Errorf("delete by venue: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
