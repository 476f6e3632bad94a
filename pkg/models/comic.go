package models

import "time"

// Comic is a generated artifact for a venue. The ID is unique per generation,
// not per venue: regenerating supersedes the old artifact wholesale.
type Comic struct {
	ID          string    `json:"id"`
	VenueID     string    `json:"venue_id"`
	VenueName   string    `json:"venue_name"`
	Narrative   string    `json:"narrative"`
	Score       int       `json:"score"`       // 0-100
	PanelCount  int       `json:"panel_count"` // 1-4
	ImageURL    string    `json:"image_url"`
	GeneratedAt time.Time `json:"generated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the comic's cache window has passed at the given
// instant.
func (c Comic) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
