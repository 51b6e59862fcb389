package verification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/middleware"
	"github.com/subhvivah/matrimony/pkg/validation"
)

// Handler handles HTTP requests for verification
type Handler struct {
	service *Service
}

// NewHandler creates a new verification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Start begins an OTP challenge
func (h *Handler) Start(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, validation.BindingErrorMessage(err, "profile_id and channel are required"))
		return
	}

	if err := h.service.Start(c.Request.Context(), &req, c.ClientIP()); err != nil {
		common.HandleServiceError(c, err, "failed to start verification")
		return
	}
	common.SuccessResponse(c, gin.H{"sent": true})
}

// Verify completes an OTP challenge
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, validation.BindingErrorMessage(err, "profile_id, channel and code are required"))
		return
	}

	level, err := h.service.Verify(c.Request.Context(), &req)
	if err != nil {
		common.HandleServiceError(c, err, "failed to verify code")
		return
	}
	common.SuccessResponse(c, gin.H{"verified": true, "verification_level": level})
}

// VerifyPAN submits a PAN for verification
func (h *Handler) VerifyPAN(c *gin.Context) {
	var req PANRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, validation.BindingErrorMessage(err, "profile_id and pan are required"))
		return
	}

	level, masked, err := h.service.VerifyPAN(c.Request.Context(), &req, middleware.GetUserEmail(c))
	if err != nil {
		common.HandleServiceError(c, err, "failed to verify PAN")
		return
	}
	common.SuccessResponse(c, gin.H{
		"verified":           true,
		"pan_masked":         masked,
		"verification_level": level,
	})
}

// VerifySelfie marks the selfie check passed
func (h *Handler) VerifySelfie(c *gin.Context) {
	var req SelfieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, validation.BindingErrorMessage(err, "profile_id is required"))
		return
	}

	level, err := h.service.VerifySelfie(c.Request.Context(), req.ProfileID)
	if err != nil {
		common.HandleServiceError(c, err, "failed to verify selfie")
		return
	}
	common.SuccessResponse(c, gin.H{"verified": true, "verification_level": level})
}

// RegisterRoutes registers verification routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/verification/start", h.Start)
	rg.POST("/verification/verify", h.Verify)
	rg.POST("/verification/pan", h.VerifyPAN)
	rg.POST("/verification/selfie", h.VerifySelfie)
}
