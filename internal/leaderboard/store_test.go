package leaderboard

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punkouter26/PoSeeReview-sub001/internal/retry"
	"github.com/punkouter26/PoSeeReview-sub001/pkg/database"
	"github.com/punkouter26/PoSeeReview-sub001/pkg/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func entry(region, venueID string, score int) models.LeaderboardEntry {
	return models.LeaderboardEntry{
		VenueID:   venueID,
		VenueName: "venue " + venueID,
		Region:    region,
		Score:     score,
		ImageURL:  "http://localhost/artifacts/" + venueID + ".png",
		UpdatedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestEncodeRowKeyOrdersDescendingByScore(t *testing.T) {
	keys := []string{
		EncodeRowKey(50, "v-c"),
		EncodeRowKey(98, "v-a"),
		EncodeRowKey(85, "v-b"),
	}
	sort.Strings(keys)

	// ascending key order must equal descending score order
	assert.Equal(t, EncodeRowKey(98, "v-a"), keys[0])
	assert.Equal(t, EncodeRowKey(85, "v-b"), keys[1])
	assert.Equal(t, EncodeRowKey(50, "v-c"), keys[2])
}

func TestEncodeRowKeyDisambiguatesEqualScores(t *testing.T) {
	assert.NotEqual(t, EncodeRowKey(40, "v-1"), EncodeRowKey(40, "v-2"))
}

func TestGetTopEntries(t *testing.T) {
	store := NewStore(openTestDB(t), nil)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, entry("R", "v-mid", 85)))
	require.NoError(t, store.Upsert(ctx, entry("R", "v-low", 50)))
	require.NoError(t, store.Upsert(ctx, entry("R", "v-top", 98)))
	require.NoError(t, store.Upsert(ctx, entry("other", "v-elsewhere", 99)))

	got, err := store.GetTopEntries(ctx, "R", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 98, got[0].Score)
	assert.Equal(t, "v-top", got[0].VenueID)
	assert.Equal(t, 2, got[1].Rank)
	assert.Equal(t, 85, got[1].Score)
}

func TestGetTopEntriesNonIncreasingScores(t *testing.T) {
	store := NewStore(openTestDB(t), nil)
	ctx := context.Background()

	for _, e := range []models.LeaderboardEntry{
		entry("R", "a", 21), entry("R", "b", 100), entry("R", "c", 55),
		entry("R", "d", 55), entry("R", "e", 20),
	} {
		require.NoError(t, store.Upsert(ctx, e))
	}

	got, err := store.GetTopEntries(ctx, "R", 50)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i].Score, got[i-1].Score)
		assert.GreaterOrEqual(t, got[i].Score, AdmissionThreshold)
	}
}

func TestGetTopEntriesEmptyPartition(t *testing.T) {
	store := NewStore(openTestDB(t), nil)

	got, err := store.GetTopEntries(context.Background(), "nowhere", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpsertRejectsBelowThreshold(t *testing.T) {
	store := NewStore(openTestDB(t), nil)

	err := store.Upsert(context.Background(), entry("R", "v-1", AdmissionThreshold-1))
	require.Error(t, err)
	assert.Equal(t, retry.KindValidation, retry.KindOf(err))
}

func TestUpsertScoreChangeMovesKey(t *testing.T) {
	store := NewStore(openTestDB(t), nil)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, entry("R", "v-1", 40)))
	require.NoError(t, store.Upsert(ctx, entry("R", "v-1", 90)))

	got, err := store.GetTopEntries(ctx, "R", 50)
	require.NoError(t, err)
	require.Len(t, got, 1) // old key must be gone
	assert.Equal(t, 90, got[0].Score)
}

func TestUpsertSameScoreUpdatesInPlace(t *testing.T) {
	store := NewStore(openTestDB(t), nil)
	ctx := context.Background()

	e := entry("R", "v-1", 40)
	require.NoError(t, store.Upsert(ctx, e))
	e.VenueName = "renamed"
	require.NoError(t, store.Upsert(ctx, e))

	got, err := store.GetByVenue(ctx, "R", "v-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "renamed", got.VenueName)
}

func TestGetByVenueAbsent(t *testing.T) {
	store := NewStore(openTestDB(t), nil)

	got, err := store.GetByVenue(context.Background(), "R", "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteByVenueSpansRegions(t *testing.T) {
	store := NewStore(openTestDB(t), nil)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, entry("east", "v-1", 40)))
	require.NoError(t, store.Upsert(ctx, entry("west", "v-1", 60)))
	require.NoError(t, store.Upsert(ctx, entry("east", "v-2", 70)))

	n, err := store.DeleteByVenue(ctx, "v-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	east, err := store.GetTopEntries(ctx, "east", 10)
	require.NoError(t, err)
	require.Len(t, east, 1)
	assert.Equal(t, "v-2", east[0].VenueID)

	west, err := store.GetTopEntries(ctx, "west", 10)
	require.NoError(t, err)
	assert.Empty(t, west)
}

func TestDeleteEntry(t *testing.T) {
	store := NewStore(openTestDB(t), nil)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, entry("east", "v-1", 40)))
	require.NoError(t, store.Upsert(ctx, entry("west", "v-1", 60)))

	ok, err := store.DeleteEntry(ctx, "east", "v-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// other region untouched
	west, err := store.GetByVenue(ctx, "west", "v-1")
	require.NoError(t, err)
	assert.NotNil(t, west)

	ok, err = store.DeleteEntry(ctx, "east", "v-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetTopEntriesClampsLimit(t *testing.T) {
	store := NewStore(openTestDB(t), nil)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, entry("R", "v-1", 30)))

	got, err := store.GetTopEntries(ctx, "R", 500)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = store.GetTopEntries(ctx, "R", 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
