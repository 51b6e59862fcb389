package premium

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles premium data operations
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new premium repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetState reads the current premium standing
func (r *Repository) GetState(ctx context.Context, profileID uuid.UUID) (*State, error) {
	query := `SELECT premium_status, premium_expiry FROM profiles WHERE id = $1`
	var st State
	err := r.db.QueryRow(ctx, query, profileID).Scan(&st.Active, &st.Expiry)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// SetPremium marks the profile premium until expiry
func (r *Repository) SetPremium(ctx context.Context, profileID uuid.UUID, expiry time.Time) error {
	query := `
		UPDATE profiles
		SET premium_status = TRUE, premium_expiry = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, profileID, expiry)
	return err
}

// ClearFlag removes the premium flag. The stored expiry is kept as a record
// of the revoked term.
func (r *Repository) ClearFlag(ctx context.Context, profileID uuid.UUID) error {
	query := `UPDATE profiles SET premium_status = FALSE, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, profileID)
	return err
}

// InsertGrant appends an entry to the grants ledger
func (r *Repository) InsertGrant(ctx context.Context, grant *Grant) error {
	query := `
		INSERT INTO premium_grants (id, profile_id, source, months, starts_at, expires_at, revoked, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		grant.ID, grant.ProfileID, grant.Source, grant.Months,
		grant.StartsAt, grant.ExpiresAt, grant.Revoked, grant.Reason, grant.CreatedAt)
	return err
}

// RevokeActiveGrants marks all non-revoked grants revoked with a reason
func (r *Repository) RevokeActiveGrants(ctx context.Context, profileID uuid.UUID, reason string) error {
	query := `
		UPDATE premium_grants
		SET revoked = TRUE, reason = $2
		WHERE profile_id = $1 AND revoked = FALSE
	`
	_, err := r.db.Exec(ctx, query, profileID, reason)
	return err
}

// ListGrants returns the grants ledger for a profile, newest first
func (r *Repository) ListGrants(ctx context.Context, profileID uuid.UUID) ([]*Grant, error) {
	query := `
		SELECT id, profile_id, source, months, starts_at, expires_at, revoked, reason, created_at
		FROM premium_grants
		WHERE profile_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []*Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.ID, &g.ProfileID, &g.Source, &g.Months,
			&g.StartsAt, &g.ExpiresAt, &g.Revoked, &g.Reason, &g.CreatedAt); err != nil {
			return nil, err
		}
		grants = append(grants, &g)
	}
	return grants, rows.Err()
}

// InsertPayment records a payment
func (r *Repository) InsertPayment(ctx context.Context, payment *Payment) error {
	query := `
		INSERT INTO payments (id, profile_id, plan, amount, method, status, txn_ref, created_at, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		payment.ID, payment.ProfileID, payment.Plan, payment.Amount,
		payment.Method, payment.Status, payment.TxnRef, payment.CreatedAt, payment.PaidAt)
	return err
}

// MarkPaymentPaid transitions a pending payment to paid and returns it
func (r *Repository) MarkPaymentPaid(ctx context.Context, txnRef string, paidAt time.Time) (*Payment, error) {
	query := `
		UPDATE payments
		SET status = $2, paid_at = $3
		WHERE txn_ref = $1 AND status = $4
		RETURNING id, profile_id, plan, amount, method, status, txn_ref, created_at, paid_at
	`
	var p Payment
	err := r.db.QueryRow(ctx, query, txnRef, PaymentPaid, paidAt, PaymentPending).Scan(
		&p.ID, &p.ProfileID, &p.Plan, &p.Amount, &p.Method, &p.Status,
		&p.TxnRef, &p.CreatedAt, &p.PaidAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetRewardState reads the state checked by the full-verification reward
func (r *Repository) GetRewardState(ctx context.Context, profileID uuid.UUID) (*RewardState, error) {
	query := `
		SELECT verification_level,
			(
				(full_name != '')::int + (gender != '')::int +
				(birth_date IS NOT NULL)::int +
				(COALESCE(height_cm, 0) > 0)::int +
				(city != '')::int + (state != '')::int +
				(education != '')::int + (occupation != '')::int +
				(annual_income != '')::int + (religion != '')::int +
				(mother_tongue != '')::int + (about_me != '')::int +
				(photo_url != '')::int + (community_id != '')::int
			) * 100 / 14,
			success_reward_status
		FROM profiles
		WHERE id = $1
	`
	var st RewardState
	err := r.db.QueryRow(ctx, query, profileID).Scan(
		&st.VerificationLevel, &st.Completeness, &st.SuccessRewardStatus)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// SetSuccessRewardStatus records that a one-time reward has been claimed
func (r *Repository) SetSuccessRewardStatus(ctx context.Context, profileID uuid.UUID, status string) error {
	query := `UPDATE profiles SET success_reward_status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, profileID, status)
	return err
}
