package moderation

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/subhvivah/matrimony/internal/profiles"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/middleware"
	"github.com/subhvivah/matrimony/pkg/pagination"
)

// Handler handles HTTP requests for moderation
type Handler struct {
	service  *Service
	profiles *profiles.Service
}

// NewHandler creates a new moderation handler
func NewHandler(service *Service, profileService *profiles.Service) *Handler {
	return &Handler{service: service, profiles: profileService}
}

// SubmitReport files a report against another profile
func (h *Handler) SubmitReport(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "reported_profile_id and reason are required")
		return
	}

	reporter, err := h.profiles.GetOrCreate(c.Request.Context(), userID.String(), "")
	if err != nil {
		common.HandleServiceError(c, err, "failed to load profile")
		return
	}

	report, err := h.service.SubmitReport(c.Request.Context(), reporter.ID, &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to submit report")
		return
	}

	common.SuccessResponse(c, report)
}

// ListQueue returns moderation queue items for review
func (h *Handler) ListQueue(c *gin.Context) {
	params := pagination.ParseParams(c)
	items, err := h.service.ListQueue(c.Request.Context(), c.Query("status"), params.Limit, params.Offset)
	if err != nil {
		common.HandleServiceError(c, err, "failed to list moderation queue")
		return
	}
	common.SuccessResponse(c, items)
}

// ResolveQueueItem marks a queue item handled
func (h *Handler) ResolveQueueItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid queue item ID")
		return
	}

	email := middleware.GetUserEmail(c)
	if err := h.service.ResolveQueueItem(c.Request.Context(), id, email); err != nil {
		common.HandleServiceError(c, err, "failed to resolve queue item")
		return
	}
	common.SuccessResponse(c, gin.H{"resolved": true})
}

// ListReports returns filed reports
func (h *Handler) ListReports(c *gin.Context) {
	params := pagination.ParseParams(c)
	reports, err := h.service.ListReports(c.Request.Context(), c.Query("status"), params.Limit, params.Offset)
	if err != nil {
		common.HandleServiceError(c, err, "failed to list reports")
		return
	}
	common.SuccessResponse(c, reports)
}

// ResolveReport closes a report as actioned
func (h *Handler) ResolveReport(c *gin.Context) {
	h.closeReport(c, h.service.ResolveReport)
}

// RejectReport closes a report without action
func (h *Handler) RejectReport(c *gin.Context) {
	h.closeReport(c, h.service.RejectReport)
}

func (h *Handler) closeReport(c *gin.Context, close func(ctx context.Context, id uuid.UUID, resolvedBy string) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid report ID")
		return
	}

	email := middleware.GetUserEmail(c)
	if err := close(c.Request.Context(), id, email); err != nil {
		common.HandleServiceError(c, err, "failed to close report")
		return
	}
	common.SuccessResponse(c, gin.H{"closed": true})
}

// RegisterRoutes registers user-facing moderation routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reports", h.SubmitReport)
}

// RegisterAdminRoutes registers moderator routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/moderation/queue", h.ListQueue)
	rg.POST("/moderation/queue/:id/resolve", h.ResolveQueueItem)
	rg.GET("/moderation/reports", h.ListReports)
	rg.POST("/moderation/reports/:id/resolve", h.ResolveReport)
	rg.POST("/moderation/reports/:id/reject", h.RejectReport)
}
