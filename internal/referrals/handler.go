package referrals

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subhvivah/matrimony/internal/profiles"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/middleware"
)

// Handler handles HTTP requests for referrals
type Handler struct {
	service  *Service
	profiles *profiles.Service
}

// NewHandler creates a new referral handler
func NewHandler(service *Service, profileService *profiles.Service) *Handler {
	return &Handler{service: service, profiles: profileService}
}

// Record links a referred profile to the caller
func (h *Handler) Record(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "referred_profile_id is required")
		return
	}

	referrer, err := h.profiles.GetOrCreate(c.Request.Context(), userID.String(), "")
	if err != nil {
		common.HandleServiceError(c, err, "failed to load profile")
		return
	}

	referral, err := h.service.Record(c.Request.Context(), referrer.ID, req.ReferredProfileID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to record referral")
		return
	}
	common.SuccessResponse(c, referral)
}

// Me returns the caller's referral standing
func (h *Handler) Me(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	referrer, err := h.profiles.GetOrCreate(c.Request.Context(), userID.String(), "")
	if err != nil {
		common.HandleServiceError(c, err, "failed to load profile")
		return
	}

	counts, err := h.service.Counts(c.Request.Context(), referrer.ID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to load referral counts")
		return
	}
	common.SuccessResponse(c, counts)
}

// Verify checks a referral against the verification criteria
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "referrer_profile_id and referred_profile_id are required")
		return
	}

	counts, err := h.service.Verify(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to verify referral")
		return
	}
	common.SuccessResponse(c, counts)
}

// Stats returns the platform-wide referral summary
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		common.HandleServiceError(c, err, "failed to load referral stats")
		return
	}
	common.SuccessResponse(c, stats)
}

// AdminGrant manually awards the referral premium term
func (h *Handler) AdminGrant(c *gin.Context) {
	var req AdminGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "profile_id is required")
		return
	}

	expiry, err := h.service.AdminGrant(c.Request.Context(), req.ProfileID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to grant premium")
		return
	}
	common.SuccessResponse(c, gin.H{"premium_status": true, "premium_expiry": expiry})
}

// RegisterRoutes registers referral routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/referrals", h.Record)
	rg.GET("/referrals/me", h.Me)
}

// RegisterAdminRoutes registers referral admin routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/referrals/verify", h.Verify)
	rg.GET("/referrals/stats", h.Stats)
	rg.POST("/referrals/grant", h.AdminGrant)
}
