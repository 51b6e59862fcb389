package hope

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subhvivah/matrimony/internal/profiles"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/middleware"
)

// Handler handles HTTP requests for hope points
type Handler struct {
	service  *Service
	profiles *profiles.Service
}

// NewHandler creates a new hope point handler
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

// GetBalance returns the caller's hope point balance
func (h *Handler) GetBalance(c *gin.Context) {
	profile, ok := h.callerProfile(c)
	if !ok {
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), profile.ID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to load balance")
		return
	}
	common.SuccessResponse(c, balance)
}

// Award credits points for an event
func (h *Handler) Award(c *gin.Context) {
	var req AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "profile_id and event are required")
		return
	}

	balance, err := h.service.Award(c.Request.Context(), req.ProfileID, req.Event)
	if err != nil {
		common.HandleServiceError(c, err, "failed to award points")
		return
	}
	common.SuccessResponse(c, balance)
}

// Redeem spends the caller's points on a reward
func (h *Handler) Redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "reward is required")
		return
	}

	profile, ok := h.callerProfile(c)
	if !ok {
		return
	}

	balance, err := h.service.Redeem(c.Request.Context(), profile.ID, req.Reward)
	if err != nil {
		common.HandleServiceError(c, err, "failed to redeem reward")
		return
	}
	common.SuccessResponse(c, balance)
}

// RegisterRoutes registers hope point routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/hope/me", h.GetBalance)
	rg.POST("/hope/redeem", h.Redeem)
}

// RegisterAdminRoutes registers hope point admin routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/hope/award", h.Award)
}
