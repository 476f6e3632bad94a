package comic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/punkouter26/PoSeeReview-sub001/internal/analyzer"
	"github.com/punkouter26/PoSeeReview-sub001/internal/artifact"
	"github.com/punkouter26/PoSeeReview-sub001/internal/comiccache"
	"github.com/punkouter26/PoSeeReview-sub001/internal/events"
	"github.com/punkouter26/PoSeeReview-sub001/internal/imagegen"
	"github.com/punkouter26/PoSeeReview-sub001/internal/leaderboard"
	"github.com/punkouter26/PoSeeReview-sub001/internal/retry"
	"github.com/punkouter26/PoSeeReview-sub001/internal/review"
	"github.com/punkouter26/PoSeeReview-sub001/internal/venue"
	"github.com/punkouter26/PoSeeReview-sub001/pkg/models"
)

// MinReviews is the smallest review set the pipeline will analyze.
const MinReviews = 5

// Result is a generation outcome. Cached marks a cache hit; a fresh artifact
// is always Cached=false.
type Result struct {
	Comic  models.Comic `json:"comic"`
	Cached bool         `json:"cached"`
}

// Pipeline orchestrates a single venue's generation run: cache lookup,
// curation, analysis, rendering, persistence and index updates. Collaborators
// are narrow interfaces so each stage is substitutable in tests.
//
// Concurrent runs for different venues share no state beyond the cache and
// the leaderboard, both accessed through per-key atomic operations. Two
// concurrent cache misses for the same venue both run the full pipeline and
// both pay for the external calls; there is deliberately no single-flight
// guard here.
type Pipeline struct {
	Venues    venue.Lookup
	Cache     *comiccache.Repo
	Board     *leaderboard.Store
	Analyzer  analyzer.Analyzer
	Renderer  imagegen.Generator
	Overlay   imagegen.Overlay // nil means pass-through
	Artifacts artifact.Store
	Caller    *retry.Caller
	Hub       *events.Hub // nil means no broadcasts
	Logger    *zap.Logger

	TTL        time.Duration
	MaxReviews int // curation prefix, clamped 5-10

	now func() time.Time
}

type Options struct {
	TTL        time.Duration
	MaxReviews int
}

func NewPipeline(
	venues venue.Lookup,
	cache *comiccache.Repo,
	board *leaderboard.Store,
	an analyzer.Analyzer,
	renderer imagegen.Generator,
	overlay imagegen.Overlay,
	artifacts artifact.Store,
	caller *retry.Caller,
	hub *events.Hub,
	logger *zap.Logger,
	opts Options,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if caller == nil {
		caller = retry.New(logger)
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	maxReviews := opts.MaxReviews
	if maxReviews < MinReviews {
		maxReviews = 8
	}
	if maxReviews > 10 {
		maxReviews = 10
	}

	return &Pipeline{
		Venues:     venues,
		Cache:      cache,
		Board:      board,
		Analyzer:   an,
		Renderer:   renderer,
		Overlay:    overlay,
		Artifacts:  artifacts,
		Caller:     caller,
		Hub:        hub,
		Logger:     logger,
		TTL:        ttl,
		MaxReviews: maxReviews,
		now:        time.Now,
	}
}

// Generate runs the full state machine for one venue. With forceRegenerate
// false, a live cached artifact short-circuits everything. Terminal failures
// at any later step leave the previous cache and leaderboard state untouched.
func (p *Pipeline) Generate(ctx context.Context, venueID string, forceRegenerate bool) (Result, error) {
	const op = "comic.generate"

	// CacheCheck
	if !forceRegenerate {
		cached, err := p.Cache.Get(ctx, venueID)
		if err != nil {
			return Result{}, fmt.Errorf("cache check: %w", err)
		}
		if cached != nil && !cached.Expired(p.now()) {
			p.Logger.Debug("cache hit", zap.String("venue_id", venueID))
			return Result{Comic: *cached, Cached: true}, nil
		}
	}

	// FetchVenue
	v, err := p.Venues.GetVenue(ctx, venueID)
	if err != nil {
		return Result{}, err
	}

	// ValidateReviewCount — checked before any paid external call.
	if len(v.Reviews) < MinReviews {
		return Result{}, retry.Validation(op,
			fmt.Errorf("venue %s has %d reviews, need at least %d", venueID, len(v.Reviews), MinReviews))
	}

	// Curate
	working := review.Curate(v.Reviews, p.MaxReviews)
	texts := make([]string, 0, len(working))
	for _, r := range working {
		texts = append(texts, r.Text)
	}

	// Analyze
	analysis, err := retry.DoValue(ctx, p.Caller, "analyze", func(ctx context.Context) (analyzer.Analysis, error) {
		return p.Analyzer.Analyze(ctx, texts)
	})
	if err != nil {
		return Result{}, err
	}
	score := analyzer.ClampScore(analysis.Score)
	panels := analyzer.ClampPanels(analysis.PanelCount)

	// Render
	img, err := retry.DoValue(ctx, p.Caller, "render", func(ctx context.Context) ([]byte, error) {
		return p.Renderer.Generate(ctx, analysis.Narrative, panels)
	})
	if err != nil {
		return Result{}, err
	}

	if p.Overlay != nil {
		captioned, err := p.Overlay.Apply(img, analysis.Narrative)
		if err != nil {
			// Overlay is cosmetic: degrade to the raw panels.
			p.Logger.Warn("text overlay failed", zap.String("venue_id", venueID), zap.Error(err))
		} else {
			img = captioned
		}
	}

	// Persist — not retried here; the object-store client owns its own
	// retry policy if it wants one.
	comicID := uuid.NewString()
	url, err := p.Artifacts.Put(ctx, comicID, img)
	if err != nil {
		return Result{}, err
	}

	// Commit
	now := p.now()
	c := models.Comic{
		ID:          comicID,
		VenueID:     v.ID,
		VenueName:   v.Name,
		Narrative:   analysis.Narrative,
		Score:       score,
		PanelCount:  panels,
		ImageURL:    url,
		GeneratedAt: now,
		ExpiresAt:   now.Add(p.TTL),
	}
	if err := p.Cache.Upsert(ctx, c); err != nil {
		return Result{}, fmt.Errorf("commit: %w", err)
	}

	p.Logger.Info("comic generated",
		zap.String("venue_id", v.ID),
		zap.String("comic_id", comicID),
		zap.Int("score", score),
		zap.Int("panels", panels))

	if p.Hub != nil {
		p.Hub.BroadcastJSON(events.ComicGenerated{
			Type:      events.TypeComicGenerated,
			VenueID:   v.ID,
			VenueName: v.Name,
			ComicID:   comicID,
			Score:     score,
			ImageURL:  url,
			At:        now,
		})
	}

	// RankUpdate — skipped silently below the admission threshold. A rank
	// failure after a committed artifact is logged, not surfaced: the comic
	// itself is already durable.
	if score >= leaderboard.AdmissionThreshold {
		entry := models.LeaderboardEntry{
			VenueID:   v.ID,
			VenueName: v.Name,
			Address:   v.Address,
			Region:    v.Region,
			Score:     score,
			ImageURL:  url,
			UpdatedAt: now,
		}
		if err := p.Board.Upsert(ctx, entry); err != nil {
			p.Logger.Error("leaderboard update failed",
				zap.String("venue_id", v.ID),
				zap.String("region", v.Region),
				zap.Error(err))
		} else if p.Hub != nil {
			p.Hub.BroadcastJSON(events.LeaderboardUpdate{
				Type:    events.TypeLeaderboardUpdate,
				Region:  v.Region,
				VenueID: v.ID,
				Score:   score,
				At:      now,
			})
		}
	}

	return Result{Comic: c, Cached: false}, nil
}
