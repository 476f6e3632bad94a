package models

// Venue is the normalized, internal form of a place returned by the external
// discovery service. All sources are mapped into this structure before the
// pipeline touches them.
type Venue struct {
	ID          string   `json:"id"`               // stable ID from the discovery service
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Latitude    float64  `json:"latitude,omitempty"`
	Longitude   float64  `json:"longitude,omitempty"`
	Region      string   `json:"region"`           // leaderboard partition tag
	Rating      float64  `json:"rating,omitempty"` // aggregate rating
	ReviewCount int      `json:"review_count"`
	Reviews     []Review `json:"reviews,omitempty"`
}
