package interests

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subhvivah/matrimony/internal/profiles"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/middleware"
)

// Handler handles HTTP requests for interests
type Handler struct {
	service  *Service
	profiles *profiles.Service
}

// NewHandler creates a new interest handler
func NewHandler(service *Service, profileService *profiles.Service) *Handler {
	return &Handler{service: service, profiles: profileService}
}

func (h *Handler) callerProfile(c *gin.Context) (*profiles.Profile, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	profile, err := h.profiles.GetOrCreate(c.Request.Context(), userID.String(), "")
	if err != nil {
		common.HandleServiceError(c, err, "failed to load profile")
		return nil, false
	}
	return profile, true
}

// Send sends an interest to another profile
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "to_profile_id is required")
		return
	}

	sender, ok := h.callerProfile(c)
	if !ok {
		return
	}

	interest, err := h.service.Send(c.Request.Context(), sender.ID, &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to send interest")
		return
	}
	common.SuccessResponse(c, interest)
}

// Block blocks a profile from further contact
func (h *Handler) Block(c *gin.Context) {
	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "blocked_profile_id is required")
		return
	}

	blocker, ok := h.callerProfile(c)
	if !ok {
		return
	}

	if err := h.service.BlockProfile(c.Request.Context(), blocker.ID, &req); err != nil {
		common.HandleServiceError(c, err, "failed to block profile")
		return
	}
	common.SuccessResponse(c, gin.H{"blocked": true})
}

// RegisterRoutes registers interest routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interests", h.Send)
	rg.POST("/block", h.Block)
}
