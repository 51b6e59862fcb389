package authz

import (
	"time"

	"github.com/google/uuid"
)

// Admin is a console operator with a role and optional second factor
type Admin struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Role         string     `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	TwoFAEnabled bool       `json:"two_fa_enabled" db:"two_fa_enabled"`
	TOTPSecret   string     `json:"-" db:"totp_secret"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}

// Config is the role-to-permission table, injected at startup
type Config struct {
	// RolePermissions grants either exact permissions ("risk:reset"), module
	// wildcards ("risk:*"), or the global wildcard ("*").
	RolePermissions map[string][]string
	// AdminEmails are superusers allowed everything without a directory entry.
	AdminEmails []string
	// TwoFATestCode, when set, is accepted in place of a TOTP code.
	TwoFATestCode string
}

// DefaultRolePermissions is the shipped role table
var DefaultRolePermissions = map[string][]string{
	"superadmin": {"*"},
	"moderator":  {"moderation:*", "risk:*", "contributions:*", "successes:*"},
	"support":    {"moderation:list", "referrals:*", "hope:award"},
	"finance":    {"premium:*", "stats:*"},
}
