package referrals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles referral data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new referral repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert records a referral; the pair is unique so repeats insert nothing
func (r *Repository) Insert(ctx context.Context, referral *Referral) (bool, error) {
	query := `
		INSERT INTO referrals (id, referrer_profile_id, referred_profile_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (referrer_profile_id, referred_profile_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query,
		referral.ID, referral.ReferrerProfileID, referral.ReferredProfileID,
		referral.Status, referral.CreatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementReferralCount bumps the referrer's recorded count
func (r *Repository) IncrementReferralCount(ctx context.Context, referrerID uuid.UUID) error {
	query := `UPDATE profiles SET referral_count = referral_count + 1, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, referrerID)
	return err
}

// SetReferredBy records who brought the referred profile in
func (r *Repository) SetReferredBy(ctx context.Context, referredID uuid.UUID, referrerID uuid.UUID) error {
	query := `UPDATE profiles SET referred_by_user_id = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, referredID, referrerID.String())
	return err
}

// GetCandidate reads the referred profile state the verification criteria
// check, including PAN and device collision counts
func (r *Repository) GetCandidate(ctx context.Context, referredID uuid.UUID) (*Candidate, error) {
	query := `
		SELECT p.created_at, p.is_active, p.phone_verified,
			(
				(p.full_name != '')::int + (p.gender != '')::int +
				(p.birth_date IS NOT NULL)::int +
				(COALESCE(p.height_cm, 0) > 0)::int +
				(p.city != '')::int + (p.state != '')::int +
				(p.education != '')::int + (p.occupation != '')::int +
				(p.annual_income != '')::int + (p.religion != '')::int +
				(p.mother_tongue != '')::int + (p.about_me != '')::int +
				(p.photo_url != '')::int + (p.community_id != '')::int
			) * 100 / 14,
			(SELECT COUNT(*) FROM profiles o
			 WHERE o.pan_hash = p.pan_hash AND o.id != p.id AND p.pan_hash IS NOT NULL),
			(SELECT COUNT(*) FROM profiles o
			 WHERE o.device_fingerprint = p.device_fingerprint AND o.id != p.id
			   AND p.device_fingerprint IS NOT NULL)
		FROM profiles p
		WHERE p.id = $1
	`
	var c Candidate
	err := r.db.QueryRow(ctx, query, referredID).Scan(
		&c.CreatedAt, &c.IsActive, &c.PhoneVerified, &c.Completeness,
		&c.PANDuplicates, &c.DeviceDuplicates)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// MarkVerified transitions a pending referral to verified
func (r *Repository) MarkVerified(ctx context.Context, referrerID, referredID uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE referrals
		SET status = $3, verified_at = $4
		WHERE referrer_profile_id = $1 AND referred_profile_id = $2 AND status = $5
	`
	tag, err := r.db.Exec(ctx, query, referrerID, referredID, StatusVerified, at, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementVerifiedCount bumps the referrer's verified count
func (r *Repository) IncrementVerifiedCount(ctx context.Context, referrerID uuid.UUID) error {
	query := `UPDATE profiles SET verified_referral_count = verified_referral_count + 1, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, referrerID)
	return err
}

// GetCounts returns the referrer's standing
func (r *Repository) GetCounts(ctx context.Context, referrerID uuid.UUID) (*Counts, error) {
	query := `SELECT referral_count, verified_referral_count FROM profiles WHERE id = $1`
	var c Counts
	err := r.db.QueryRow(ctx, query, referrerID).Scan(&c.ReferralCount, &c.VerifiedReferralCount)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetStats returns the platform-wide referral summary
func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = $1),
		       COUNT(*) FILTER (WHERE status = $2),
		       COUNT(DISTINCT referrer_profile_id)
		FROM referrals
	`
	var s Stats
	err := r.db.QueryRow(ctx, query, StatusVerified, StatusPending).Scan(
		&s.TotalReferrals, &s.VerifiedReferrals, &s.PendingReferrals, &s.UniqueReferrers)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
