package leaderboard

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:region", h.top)
}

func (h *Handler) top(c *gin.Context) {
	region := strings.TrimSpace(c.Param("region"))
	if region == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "region required"})
		return
	}

	limit := defaultLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be 1-50"})
			return
		}
		limit = n
	}

	entries, err := h.Store.GetTopEntries(c.Request.Context(), region, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"region": region,
		"limit":  limit,
		"items":  entries,
	})
}
