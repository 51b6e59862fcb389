package adminstats

import (
	"github.com/gin-gonic/gin"

	"github.com/subhvivah/matrimony/pkg/common"
)

// Handler handles HTTP requests for console stats
type Handler struct {
	service *Service
}

// NewHandler creates a new stats handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Summary returns the console overview
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		common.HandleServiceError(c, err, "failed to load summary")
		return
	}
	common.SuccessResponse(c, summary)
}

// Revenue returns the payment rollup
func (h *Handler) Revenue(c *gin.Context) {
	revenue, err := h.service.Revenue(c.Request.Context())
	if err != nil {
		common.HandleServiceError(c, err, "failed to load revenue")
		return
	}
	common.SuccessResponse(c, revenue)
}

// Analytics returns the growth rollup
func (h *Handler) Analytics(c *gin.Context) {
	analytics, err := h.service.Analytics(c.Request.Context())
	if err != nil {
		common.HandleServiceError(c, err, "failed to load analytics")
		return
	}
	common.SuccessResponse(c, analytics)
}

// RegisterAdminRoutes registers stats admin routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats/summary", h.Summary)
	rg.GET("/stats/revenue", h.Revenue)
	rg.GET("/stats/analytics", h.Analytics)
}
