package comic

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/punkouter26/PoSeeReview-sub001/internal/retry"
)

type Handler struct {
	Pipeline *Pipeline
}

func NewHandler(pipeline *Pipeline) *Handler {
	return &Handler{Pipeline: pipeline}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/comic", h.generate)
}

func (h *Handler) generate(c *gin.Context) {
	venueID := strings.TrimSpace(c.Param("id"))
	if venueID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "venue id required"})
		return
	}

	force := c.Query("refresh") == "true"

	result, err := h.Pipeline.Generate(c.Request.Context(), venueID, force)
	if err != nil {
		status, body := mapError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, result)
}

// mapError turns a classified pipeline failure into the HTTP surface. A
// content-policy refusal gets its own body so clients can show a friendly
// message instead of an error page.
func mapError(err error) (int, gin.H) {
	switch retry.KindOf(err) {
	case retry.KindNotFound:
		return http.StatusNotFound, gin.H{"error": "venue not found"}
	case retry.KindValidation:
		return http.StatusUnprocessableEntity, gin.H{"error": "not enough reviews to generate a comic"}
	case retry.KindContentPolicy:
		return http.StatusConflict, gin.H{"error": "content_policy", "message": "this venue's reviews can't be turned into a comic"}
	case retry.KindTransient:
		return http.StatusServiceUnavailable, gin.H{"error": "generation service unavailable, try again later"}
	case retry.KindStorage:
		return http.StatusInternalServerError, gin.H{"error": "artifact storage failed"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "generation failed"}
	}
}
