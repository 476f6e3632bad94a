package events

import "time"

const (
	TypeComicGenerated    = "comic.generated"
	TypeLeaderboardUpdate = "leaderboard.update"
	TypeTakedown          = "comic.takedown"
)

// ComicGenerated is broadcast after a fresh artifact is committed.
type ComicGenerated struct {
	Type      string    `json:"type"`
	VenueID   string    `json:"venue_id"`
	VenueName string    `json:"venue_name"`
	ComicID   string    `json:"comic_id"`
	Score     int       `json:"score"`
	ImageURL  string    `json:"image_url"`
	At        time.Time `json:"at"`
}

// LeaderboardUpdate is broadcast when a venue's ranked entry changes.
type LeaderboardUpdate struct {
	Type    string    `json:"type"`
	Region  string    `json:"region"`
	VenueID string    `json:"venue_id"`
	Score   int       `json:"score"`
	At      time.Time `json:"at"`
}

// Takedown is broadcast when a venue's artifact is removed by compliance.
type Takedown struct {
	Type    string    `json:"type"`
	VenueID string    `json:"venue_id"`
	Region  string    `json:"region"`
	At      time.Time `json:"at"`
}
