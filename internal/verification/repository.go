package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles verification data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new verification repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// InsertCode stores a new OTP challenge
func (r *Repository) InsertCode(ctx context.Context, code *Code) error {
	query := `
		INSERT INTO verification_codes (id, profile_id, channel, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		code.ID, code.ProfileID, code.Channel, code.CodeHash, code.ExpiresAt, code.CreatedAt)
	return err
}

// LatestCodeHash returns the hash of the newest non-expired challenge for the
// profile and channel. Older challenges are superseded, not deleted.
func (r *Repository) LatestCodeHash(ctx context.Context, profileID uuid.UUID, channel string, now time.Time) (string, error) {
	query := `
		SELECT code_hash
		FROM verification_codes
		WHERE profile_id = $1 AND channel = $2 AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	var hash string
	err := r.db.QueryRow(ctx, query, profileID, channel, now).Scan(&hash)
	return hash, err
}

// SetPhone records the phone number the challenge was sent to
func (r *Repository) SetPhone(ctx context.Context, profileID uuid.UUID, phone, ip string) error {
	query := `
		UPDATE profiles
		SET phone_number = $2, last_ip = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, profileID, phone, ip)
	return err
}

// SetChannelVerified sets the verification flag for a channel. A WhatsApp
// verification also proves control of the phone number.
func (r *Repository) SetChannelVerified(ctx context.Context, profileID uuid.UUID, channel string) error {
	var set string
	switch channel {
	case ChannelPhone:
		set = "phone_verified = TRUE"
	case ChannelWhatsapp:
		set = "whatsapp_otp_verified = TRUE, phone_verified = TRUE"
	case ChannelFamily:
		set = "family_verified = TRUE"
	default:
		return fmt.Errorf("unknown verification channel %q", channel)
	}

	query := fmt.Sprintf(`UPDATE profiles SET %s, updated_at = NOW() WHERE id = $1`, set)
	_, err := r.db.Exec(ctx, query, profileID)
	return err
}

// GetFlags reads the per-channel verification state
func (r *Repository) GetFlags(ctx context.Context, profileID uuid.UUID) (*Flags, error) {
	query := `
		SELECT phone_verified, pan_hash IS NOT NULL, selfie_verified, family_verified
		FROM profiles
		WHERE id = $1
	`
	var f Flags
	err := r.db.QueryRow(ctx, query, profileID).Scan(
		&f.PhoneVerified, &f.PANVerified, &f.SelfieVerified, &f.FamilyVerified)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// SetLevel stores the derived verification level
func (r *Repository) SetLevel(ctx context.Context, profileID uuid.UUID, level int, verifiedAt time.Time) error {
	query := `
		UPDATE profiles
		SET verification_level = $2, verified_at = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, profileID, level, verifiedAt)
	return err
}

// SetPAN stores the PAN hash and display mask
func (r *Repository) SetPAN(ctx context.Context, profileID uuid.UUID, hash, masked string) error {
	query := `
		UPDATE profiles
		SET pan_hash = $2, pan_masked = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, profileID, hash, masked)
	return err
}

// CountPANHash counts other profiles holding the same PAN hash
func (r *Repository) CountPANHash(ctx context.Context, hash string, excludeID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM profiles WHERE pan_hash = $1 AND id != $2`
	var count int
	err := r.db.QueryRow(ctx, query, hash, excludeID).Scan(&count)
	return count, err
}

// SetSelfieVerified marks the selfie check passed
func (r *Repository) SetSelfieVerified(ctx context.Context, profileID uuid.UUID) error {
	query := `UPDATE profiles SET selfie_verified = TRUE, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, profileID)
	return err
}
