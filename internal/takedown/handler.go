package takedown

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/punkouter26/PoSeeReview-sub001/internal/leaderboard"
)

// Handler exposes the admin-only compliance surface. Routes must be
// registered on a group behind the auth middleware.
type Handler struct {
	Service *Service
	Board   *leaderboard.Store
}

func NewHandler(service *Service, board *leaderboard.Store) *Handler {
	return &Handler{Service: service, Board: board}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/takedown", h.takedown)
	rg.DELETE("/leaderboard/:region/:venueID", h.removeEntry)
}

type takedownReq struct {
	VenueID string `json:"venue_id"`
	Region  string `json:"region"`
}

func (h *Handler) takedown(c *gin.Context) {
	var req takedownReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.VenueID = strings.TrimSpace(req.VenueID)
	if req.VenueID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "venue_id required"})
		return
	}

	if err := h.Service.Takedown(c.Request.Context(), req.VenueID, strings.TrimSpace(req.Region)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "takedown failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

// removeEntry deletes a single ranked entry without touching the cached
// artifact — the explicit admin action from the entry lifecycle.
func (h *Handler) removeEntry(c *gin.Context) {
	region := strings.TrimSpace(c.Param("region"))
	venueID := strings.TrimSpace(c.Param("venueID"))
	if region == "" || venueID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "region and venue id required"})
		return
	}

	ok, err := h.Board.DeleteEntry(c.Request.Context(), region, venueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
