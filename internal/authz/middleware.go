package authz

import (
	"github.com/gin-gonic/gin"

	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/middleware"
)

// StepUpHeader carries the TOTP code for critical admin actions
const StepUpHeader = "X-Admin-2FA"

// RequirePermission gates a route on an admin permission. Critical routes
// also demand the step-up header from admins with 2FA enrolled
func RequirePermission(gate *Gate, permission string, critical bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := middleware.GetUserEmail(c)
		code := c.GetHeader(StepUpHeader)
		if err := gate.Check(c.Request.Context(), email, permission, critical, code); err != nil {
			common.HandleServiceError(c, err, "authorization failed")
			c.Abort()
			return
		}
		c.Next()
	}
}
