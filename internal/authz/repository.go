package authz

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the Postgres-backed admin directory
type Repository struct {
	db *pgxpool.Pool
}

var _ AdminDirectory = (*Repository)(nil)

// NewRepository creates a new admin directory repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetByEmail resolves an admin by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	query := `
		SELECT id, email, role, is_active, two_fa_enabled, totp_secret, last_login_at
		FROM admins
		WHERE email = $1
	`
	var a Admin
	err := r.db.QueryRow(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.Role, &a.IsActive, &a.TwoFAEnabled, &a.TOTPSecret, &a.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// RecordLogin stamps the admin's latest console activity
func (r *Repository) RecordLogin(ctx context.Context, email string, at time.Time) error {
	query := `UPDATE admins SET last_login_at = $2 WHERE email = $1`
	_, err := r.db.Exec(ctx, query, email, at)
	return err
}
