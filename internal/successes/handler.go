package successes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/subhvivah/matrimony/internal/profiles"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/middleware"
	"github.com/subhvivah/matrimony/pkg/pagination"
)

// Handler handles HTTP requests for success milestones
type Handler struct {
	service  *Service
	profiles *profiles.Service
}

// NewHandler creates a new success handler
func NewHandler(service *Service, profileService *profiles.Service) *Handler {
	return &Handler{service: service, profiles: profileService}
}

// Report files an engagement between the caller and a partner profile
func (h *Handler) Report(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "partner_profile_id is required")
		return
	}

	reporter, err := h.profiles.GetOrCreate(c.Request.Context(), userID.String(), "")
	if err != nil {
		common.HandleServiceError(c, err, "failed to load profile")
		return
	}

	success, err := h.service.Report(c.Request.Context(), reporter.ID, req.PartnerProfileID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to report success")
		return
	}
	common.SuccessResponse(c, success)
}

// List returns success records for review
func (h *Handler) List(c *gin.Context) {
	params := pagination.ParseParams(c)
	list, err := h.service.List(c.Request.Context(), c.Query("status"), params.Limit, params.Offset)
	if err != nil {
		common.HandleServiceError(c, err, "failed to list successes")
		return
	}
	common.SuccessResponse(c, list)
}

// Approve confirms a pending success
func (h *Handler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid success ID")
		return
	}

	success, err := h.service.Approve(c.Request.Context(), id, middleware.GetUserEmail(c))
	if err != nil {
		common.HandleServiceError(c, err, "failed to approve success")
		return
	}
	common.SuccessResponse(c, success)
}

// MarkMarried closes an approved success
func (h *Handler) MarkMarried(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid success ID")
		return
	}

	success, err := h.service.MarkMarried(c.Request.Context(), id, middleware.GetUserEmail(c))
	if err != nil {
		common.HandleServiceError(c, err, "failed to mark success married")
		return
	}
	common.SuccessResponse(c, success)
}

// RegisterRoutes registers success routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/successes", h.Report)
}

// RegisterAdminRoutes registers success admin routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/successes", h.List)
	rg.POST("/successes/:id/approve", h.Approve)
	rg.POST("/successes/:id/married", h.MarkMarried)
}
