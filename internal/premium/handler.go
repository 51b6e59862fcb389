package premium

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subhvivah/matrimony/internal/profiles"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/middleware"
)

// Handler handles HTTP requests for premium
type Handler struct {
	service  *Service
	profiles *profiles.Service
}

// NewHandler creates a new premium handler
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

// Status returns the caller's premium standing, ledger and badges
func (h *Handler) Status(c *gin.Context) {
	profile, ok := h.callerProfile(c)
	if !ok {
		return
	}

	state, grants, err := h.service.Status(c.Request.Context(), profile.ID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to load premium status")
		return
	}

	common.SuccessResponse(c, gin.H{
		"premium_status": state.Active,
		"premium_expiry": state.Expiry,
		"grants":         grants,
		"badges":         profiles.ComputeBadges(profile, h.service.now()),
	})
}

// Purchase buys a paid plan
func (h *Handler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "plan is required")
		return
	}

	profile, ok := h.callerProfile(c)
	if !ok {
		return
	}

	expiry, err := h.service.PurchasePaid(c.Request.Context(), profile.ID, req.Plan)
	if err != nil {
		common.HandleServiceError(c, err, "failed to purchase premium")
		return
	}
	common.SuccessResponse(c, gin.H{"premium_status": true, "premium_expiry": expiry})
}

// ClaimFullVerification claims the full-verification reward
func (h *Handler) ClaimFullVerification(c *gin.Context) {
	profile, ok := h.callerProfile(c)
	if !ok {
		return
	}

	expiry, err := h.service.GrantFullVerification(c.Request.Context(), profile.ID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to claim reward")
		return
	}
	common.SuccessResponse(c, gin.H{"premium_status": true, "premium_expiry": expiry})
}

// InitiateUPI opens a pending UPI payment
func (h *Handler) InitiateUPI(c *gin.Context) {
	var req UPIInitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "plan is required")
		return
	}

	profile, ok := h.callerProfile(c)
	if !ok {
		return
	}

	payment, err := h.service.InitiateUPI(c.Request.Context(), profile.ID, req.Plan)
	if err != nil {
		common.HandleServiceError(c, err, "failed to initiate payment")
		return
	}
	common.SuccessResponse(c, gin.H{
		"payment":    payment,
		"intent_uri": fmt.Sprintf("upi://pay?pa=subhvivah@upi&tn=%s&am=%d&cu=INR", payment.TxnRef, payment.Amount),
	})
}

// ConfirmUPI settles a pending UPI payment
func (h *Handler) ConfirmUPI(c *gin.Context) {
	var req UPIConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "txn_ref is required")
		return
	}

	expiry, err := h.service.ConfirmUPI(c.Request.Context(), req.TxnRef)
	if err != nil {
		common.HandleServiceError(c, err, "failed to confirm payment")
		return
	}
	common.SuccessResponse(c, gin.H{"premium_status": true, "premium_expiry": expiry})
}

// Revoke removes premium from a profile, admin only
func (h *Handler) Revoke(c *gin.Context) {
	var req RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "profile_id and reason are required")
		return
	}

	err := h.service.Revoke(c.Request.Context(), req.ProfileID, req.Reason, middleware.GetUserEmail(c))
	if err != nil {
		common.HandleServiceError(c, err, "failed to revoke premium")
		return
	}
	common.SuccessResponse(c, gin.H{"revoked": true})
}

// RegisterRoutes registers premium routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/premium/me", h.Status)
	rg.POST("/premium/purchase", h.Purchase)
	rg.POST("/premium/reward/full-verification", h.ClaimFullVerification)
	rg.POST("/payments/upi/initiate", h.InitiateUPI)
	rg.POST("/payments/upi/confirm", h.ConfirmUPI)
}

// RegisterAdminRoutes registers premium admin routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/premium/revoke", h.Revoke)
}
