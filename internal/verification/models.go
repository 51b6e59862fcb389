package verification

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Verification channels
const (
	ChannelPhone    = "phone"
	ChannelWhatsapp = "whatsapp"
	ChannelFamily   = "family"
)

// BypassCode is accepted on any channel when the OTP bypass is enabled in
// configuration. Staging environments only.
const BypassCode = "000000"

// panPattern matches a normalized Indian PAN: five letters, four digits, one
// letter
var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// Code is a stored OTP challenge. Only the HMAC of the code is persisted.
type Code struct {
	ID        uuid.UUID `db:"id"`
	ProfileID uuid.UUID `db:"profile_id"`
	Channel   string    `db:"channel"`
	CodeHash  string    `db:"code_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Flags is the per-channel verification state a level is derived from
type Flags struct {
	PhoneVerified  bool
	PANVerified    bool
	SelfieVerified bool
	FamilyVerified bool
}

// LevelFor derives the verification level from the flags: the highest tier
// whose flag is set. Flags are never cleared, so the level never decreases.
func LevelFor(f Flags) int {
	level := 0
	if f.PhoneVerified {
		level = 1
	}
	if f.PANVerified {
		level = 2
	}
	if f.SelfieVerified {
		level = 3
	}
	if f.FamilyVerified {
		level = 4
	}
	return level
}

// ValidChannel reports whether channel is one of the OTP channels
func ValidChannel(channel string) bool {
	return channel == ChannelPhone || channel == ChannelWhatsapp || channel == ChannelFamily
}

// NormalizePAN uppercases and strips whitespace from a raw PAN
func NormalizePAN(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}

// ValidPAN reports whether a normalized PAN matches the format
func ValidPAN(pan string) bool {
	return panPattern.MatchString(pan)
}

// MaskPAN hides all but the last four characters
func MaskPAN(pan string) string {
	if len(pan) < 4 {
		return "XXXXXX"
	}
	return "XXXXXX" + pan[len(pan)-4:]
}

// HashSecret returns the hex HMAC-SHA256 of value under key. Used for both
// OTP codes and PAN storage so raw values never reach the database.
func HashSecret(key, value string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// StartRequest begins an OTP challenge
type StartRequest struct {
	ProfileID uuid.UUID `json:"profile_id" binding:"required"`
	Channel   string    `json:"channel" binding:"required"`
	Phone     string    `json:"phone"`
}

// VerifyRequest completes an OTP challenge
type VerifyRequest struct {
	ProfileID uuid.UUID `json:"profile_id" binding:"required"`
	Channel   string    `json:"channel" binding:"required"`
	Code      string    `json:"code" binding:"required"`
}

// PANRequest submits a PAN for verification
type PANRequest struct {
	ProfileID uuid.UUID `json:"profile_id" binding:"required"`
	PAN       string    `json:"pan" binding:"required"`
}

// SelfieRequest marks a selfie as verified
type SelfieRequest struct {
	ProfileID uuid.UUID `json:"profile_id" binding:"required"`
}
