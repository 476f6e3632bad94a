package database

import (
	"database/sql"
	"fmt"
)

// Schema holds the full sqlite schema. It is applied idempotently at startup
// and by tests against in-memory databases.
const Schema = `
CREATE TABLE IF NOT EXISTS comic_cache (
	venue_id     TEXT PRIMARY KEY,
	comic_id     TEXT NOT NULL,
	venue_name   TEXT NOT NULL,
	narrative    TEXT NOT NULL DEFAULT '',
	score        INTEGER NOT NULL,
	panel_count  INTEGER NOT NULL,
	image_url    TEXT NOT NULL,
	generated_at DATETIME NOT NULL,
	expires_at   DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comic_cache_expires ON comic_cache(expires_at);

CREATE TABLE IF NOT EXISTS leaderboard (
	partition_key TEXT NOT NULL,
	row_key       TEXT NOT NULL,
	venue_id      TEXT NOT NULL,
	venue_name    TEXT NOT NULL,
	address       TEXT NOT NULL DEFAULT '',
	score         INTEGER NOT NULL,
	image_url     TEXT NOT NULL,
	updated_at    DATETIME NOT NULL,
	PRIMARY KEY (partition_key, row_key)
);
CREATE INDEX IF NOT EXISTS idx_leaderboard_venue ON leaderboard(venue_id);

CREATE TABLE IF NOT EXISTS venue_cache (
	venue_id   TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	fetched_at DATETIME NOT NULL
);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
