package models

import "time"

// LeaderboardEntry is one ranked venue inside a region partition. Rank is not
// stored; it is assigned at query time from the scan position (1-based).
type LeaderboardEntry struct {
	VenueID   string    `json:"venue_id"`
	VenueName string    `json:"venue_name"`
	Address   string    `json:"address,omitempty"`
	Region    string    `json:"region"`
	Score     int       `json:"score"`
	ImageURL  string    `json:"image_url"`
	Rank      int       `json:"rank,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
