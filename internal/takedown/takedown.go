package takedown

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/punkouter26/PoSeeReview-sub001/internal/artifact"
	"github.com/punkouter26/PoSeeReview-sub001/internal/comiccache"
	"github.com/punkouter26/PoSeeReview-sub001/internal/events"
	"github.com/punkouter26/PoSeeReview-sub001/internal/leaderboard"
)

// Service removes every trace of a venue's artifact: the cache record, the
// backing object (best-effort) and all leaderboard entries. Invoked by the
// trust/compliance collaborator through the admin API.
type Service struct {
	Cache     *comiccache.Repo
	Artifacts artifact.Store
	Board     *leaderboard.Store
	Hub       *events.Hub
	Logger    *zap.Logger
}

func NewService(cache *comiccache.Repo, artifacts artifact.Store, board *leaderboard.Store, hub *events.Hub, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Cache:     cache,
		Artifacts: artifacts,
		Board:     board,
		Hub:       hub,
		Logger:    logger,
	}
}

func (s *Service) Takedown(ctx context.Context, venueID, region string) error {
	cached, err := s.Cache.Get(ctx, venueID)
	if err != nil {
		return fmt.Errorf("takedown lookup: %w", err)
	}

	if err := s.Cache.Delete(ctx, venueID); err != nil {
		return fmt.Errorf("takedown cache delete: %w", err)
	}

	if cached != nil {
		if err := s.Artifacts.Delete(ctx, cached.ID); err != nil {
			// Best-effort: the cache record and ranking are what users see.
			s.Logger.Warn("takedown artifact delete failed",
				zap.String("comic_id", cached.ID), zap.Error(err))
		}
	}

	removed, err := s.Board.DeleteByVenue(ctx, venueID)
	if err != nil {
		return fmt.Errorf("takedown leaderboard delete: %w", err)
	}

	s.Logger.Info("takedown complete",
		zap.String("venue_id", venueID),
		zap.String("region", region),
		zap.Int("entries_removed", removed))

	if s.Hub != nil {
		s.Hub.BroadcastJSON(events.Takedown{
			Type:    events.TypeTakedown,
			VenueID: venueID,
			Region:  region,
			At:      time.Now(),
		})
	}
	return nil
}
