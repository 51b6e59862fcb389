package contributions

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/subhvivah/matrimony/internal/profiles"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/middleware"
	"github.com/subhvivah/matrimony/pkg/pagination"
)

// Handler handles HTTP requests for contributions
type Handler struct {
	service  *Service
	profiles *profiles.Service
}

// NewHandler creates a new contribution handler
func NewHandler(service *Service, profileService *profiles.Service) *Handler {
	return &Handler{service: service, profiles: profileService}
}

// Submit files a contribution for review
func (h *Handler) Submit(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "kind and description are required")
		return
	}

	helper, err := h.profiles.GetOrCreate(c.Request.Context(), userID.String(), "")
	if err != nil {
		common.HandleServiceError(c, err, "failed to load profile")
		return
	}

	contribution, err := h.service.Submit(c.Request.Context(), helper.ID, &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to submit contribution")
		return
	}
	common.SuccessResponse(c, contribution)
}

// List returns contributions for review
func (h *Handler) List(c *gin.Context) {
	params := pagination.ParseParams(c)
	list, err := h.service.List(c.Request.Context(), c.Query("status"), params.Limit, params.Offset)
	if err != nil {
		common.HandleServiceError(c, err, "failed to list contributions")
		return
	}
	common.SuccessResponse(c, list)
}

// Approve accepts a pending contribution
func (h *Handler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid contribution ID")
		return
	}

	contribution, err := h.service.Approve(c.Request.Context(), id, middleware.GetUserEmail(c))
	if err != nil {
		common.HandleServiceError(c, err, "failed to approve contribution")
		return
	}
	common.SuccessResponse(c, contribution)
}

// Reject declines a pending contribution
func (h *Handler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid contribution ID")
		return
	}

	contribution, err := h.service.Reject(c.Request.Context(), id, middleware.GetUserEmail(c))
	if err != nil {
		common.HandleServiceError(c, err, "failed to reject contribution")
		return
	}
	common.SuccessResponse(c, contribution)
}

// RegisterRoutes registers contribution routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contributions", h.Submit)
}

// RegisterAdminRoutes registers contribution admin routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/contributions", h.List)
	rg.POST("/contributions/:id/approve", h.Approve)
	rg.POST("/contributions/:id/reject", h.Reject)
}
