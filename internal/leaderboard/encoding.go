package leaderboard

import "fmt"

// The backing table only supports ordered range scans over (partition_key,
// row_key). Subtracting the score from a large constant makes ascending key
// order equal descending score order, so a plain prefix scan of a partition
// is "top N by score". The venue id suffix disambiguates equal scores.
const (
	keyConst = 1_000_000
	keyScale = 1_000
	keyWidth = 10
)

// EncodeRowKey builds the sort key for a score within a region partition.
func EncodeRowKey(score int, venueID string) string {
	return fmt.Sprintf("%0*d_%s", keyWidth, keyConst-score*keyScale, venueID)
}
