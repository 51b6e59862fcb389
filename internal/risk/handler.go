package risk

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/pagination"
)

// Handler handles HTTP requests for risk administration
type Handler struct {
	service *Service
}

// NewHandler creates a new risk handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListFlagged returns profiles with fraud flags
func (h *Handler) ListFlagged(c *gin.Context) {
	params := pagination.ParseParams(c)
	flagged, err := h.service.ListFlagged(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		common.HandleServiceError(c, err, "failed to list flagged profiles")
		return
	}
	common.SuccessResponse(c, flagged)
}

// Reset clears a profile's risk state
func (h *Handler) Reset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid profile ID")
		return
	}

	if err := h.service.Reset(c.Request.Context(), id); err != nil {
		common.HandleServiceError(c, err, "failed to reset risk state")
		return
	}
	common.SuccessResponse(c, gin.H{"reset": true})
}

// RegisterAdminRoutes registers risk admin routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/risk/flagged", h.ListFlagged)
	rg.POST("/risk/:id/reset", h.Reset)
}
