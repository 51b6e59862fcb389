package profiles

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/middleware"
	"github.com/subhvivah/matrimony/pkg/pagination"
	"github.com/subhvivah/matrimony/pkg/validation"
)

// Handler handles HTTP requests for profiles
type Handler struct {
	service *Service
}

// NewHandler creates a new profile handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetMe returns the caller's profile, creating one on first access
func (h *Handler) GetMe(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	profile, err := h.service.GetOrCreate(c.Request.Context(), userID.String(), "")
	if err != nil {
		common.HandleServiceError(c, err, "failed to load profile")
		return
	}

	common.SuccessResponse(c, gin.H{
		"profile":      profile,
		"completeness": Completeness(profile),
		"badges":       ComputeBadges(profile, h.service.now()),
	})
}

// UpdateMe applies partial edits to the caller's profile
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, validation.BindingErrorMessage(err, "invalid request body"))
		return
	}

	profile, err := h.service.GetOrCreate(c.Request.Context(), userID.String(), "")
	if err != nil {
		common.HandleServiceError(c, err, "failed to load profile")
		return
	}

	updated, completeness, err := h.service.UpdateIdentity(c.Request.Context(), profile.ID, &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to update profile")
		return
	}

	common.SuccessResponse(c, gin.H{
		"profile":      updated,
		"completeness": completeness,
	})
}

// RecordDeviceFingerprint stores the caller's device fingerprint
func (h *Handler) RecordDeviceFingerprint(c *gin.Context) {
	var req DeviceFingerprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, validation.BindingErrorMessage(err, "profile_id and device_fingerprint are required"))
		return
	}

	err := h.service.RecordDeviceFingerprint(c.Request.Context(), req.ProfileID, req.DeviceFingerprint, c.ClientIP())
	if err != nil {
		common.HandleServiceError(c, err, "failed to record device fingerprint")
		return
	}

	common.SuccessResponse(c, gin.H{"recorded": true})
}

// Search lists active profiles in rank order
func (h *Handler) Search(c *gin.Context) {
	params := pagination.ParseParams(c)

	results, total, err := h.service.Search(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		common.HandleServiceError(c, err, "failed to search profiles")
		return
	}

	common.SuccessResponseWithMeta(c, results, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// RequestDeletion queues an account deletion request
func (h *Handler) RequestDeletion(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	profile, err := h.service.GetOrCreate(c.Request.Context(), userID.String(), "")
	if err != nil {
		common.HandleServiceError(c, err, "failed to load profile")
		return
	}

	if err := h.service.RequestDeletion(c.Request.Context(), profile.ID, req.Reason); err != nil {
		common.HandleServiceError(c, err, "failed to request deletion")
		return
	}

	common.SuccessResponse(c, gin.H{"queued": true})
}

// RegisterRoutes registers profile routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profiles/me", h.GetMe)
	rg.PUT("/profiles/me", h.UpdateMe)
	rg.GET("/profiles/search", h.Search)
	rg.POST("/device-fingerprint", h.RecordDeviceFingerprint)
	rg.POST("/users/delete", h.RequestDeletion)
}
