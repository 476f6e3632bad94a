package models

import "time"

// Review is a single source review attached to a venue, as returned by the
// discovery service.
type Review struct {
	Author    string    `json:"author,omitempty"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"` // 1-5
	Timestamp time.Time `json:"timestamp,omitempty"`
}
