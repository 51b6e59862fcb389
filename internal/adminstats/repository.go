package adminstats

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/subhvivah/matrimony/internal/moderation"
	"github.com/subhvivah/matrimony/internal/risk"
)

// Repository runs the read-only console aggregates
type Repository struct {
	db *pgxpool.Pool
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new stats repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetSummary gathers the console landing-page counts
func (r *Repository) GetSummary(ctx context.Context, now time.Time) (*Summary, error) {
	var s Summary
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE premium_status AND premium_expiry > $1),
		       COUNT(*) FILTER (WHERE risk_score >= $2 OR cardinality(fraud_flags) > 0)
		FROM profiles
	`
	err := r.db.QueryRow(ctx, query, now, risk.DeactivationThreshold).Scan(
		&s.TotalProfiles, &s.ActiveProfiles, &s.PremiumActive, &s.FlaggedProfiles)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT verification_level, COUNT(*) FROM profiles GROUP BY verification_level ORDER BY verification_level`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var lc LevelCount
		if err := rows.Scan(&lc.Level, &lc.Count); err != nil {
			return nil, err
		}
		s.VerificationLevels = append(s.VerificationLevels, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE status = $1`, moderation.ReportOpen).
		Scan(&s.PendingReports)
	if err != nil {
		return nil, err
	}
	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM moderation_queue WHERE status = $1`, moderation.ItemPending).
		Scan(&s.PendingQueueItems)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetRevenue rolls up settled payments, active grants and trust spread
func (r *Repository) GetRevenue(ctx context.Context) (*Revenue, error) {
	var rev Revenue
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM payments WHERE status = 'paid'`).
		Scan(&rev.TotalAmount, &rev.PaymentCount)
	if err != nil {
		return nil, err
	}

	rev.ByPlan, err = r.revenueBy(ctx, "plan")
	if err != nil {
		return nil, err
	}
	rev.ByMethod, err = r.revenueBy(ctx, "method")
	if err != nil {
		return nil, err
	}

	rev.GrantsBySource, err = r.buckets(ctx,
		`SELECT source, COUNT(*) FROM premium_grants WHERE revoked = FALSE GROUP BY source ORDER BY source`)
	if err != nil {
		return nil, err
	}
	rev.TrustDistribution, err = r.buckets(ctx, `
		SELECT width_bucket(trust_score, 0, 100, 5) * 20 - 20 || '-' || width_bucket(trust_score, 0, 100, 5) * 20 AS bucket,
		       COUNT(*)
		FROM profiles
		GROUP BY bucket
		ORDER BY bucket
	`)
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// GetAnalytics rolls up growth, risk signals and the success funnel
func (r *Repository) GetAnalytics(ctx context.Context, now time.Time) (*Analytics, error) {
	var a Analytics
	query := `
		SELECT COUNT(*) FILTER (WHERE created_at > $1),
		       COUNT(*) FILTER (WHERE created_at > $2)
		FROM profiles
	`
	err := r.db.QueryRow(ctx, query, now.AddDate(0, 0, -7), now.AddDate(0, 0, -30)).
		Scan(&a.NewProfiles7d, &a.NewProfiles30d)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM moderation_queue WHERE item_type = $1 AND created_at > $2`,
		moderation.ItemHighRisk, now.AddDate(0, 0, -30)).Scan(&a.RiskSignals30d)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status IN ('approved', 'closed')),
		       COUNT(*) FILTER (WHERE status = 'closed')
		FROM successes
	`).Scan(&a.Successes.Reported, &a.Successes.Approved, &a.Successes.Married)
	if err != nil {
		return nil, err
	}

	a.RiskDistribution, err = r.buckets(ctx, `
		SELECT CASE
		         WHEN risk_score >= 70 THEN 'high'
		         WHEN risk_score >= 30 THEN 'elevated'
		         WHEN risk_score > 0 THEN 'low'
		         ELSE 'clean'
		       END AS bucket,
		       COUNT(*)
		FROM profiles
		GROUP BY bucket
		ORDER BY bucket
	`)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) revenueBy(ctx context.Context, column string) ([]SourceRevenue, error) {
	// column is one of the fixed callers, never user input
	query := `SELECT ` + column + `, COALESCE(SUM(amount), 0), COUNT(*)
		FROM payments WHERE status = 'paid' GROUP BY ` + column + ` ORDER BY ` + column
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SourceRevenue
	for rows.Next() {
		var sr SourceRevenue
		if err := rows.Scan(&sr.Source, &sr.Amount, &sr.Count); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (r *Repository) buckets(ctx context.Context, query string) ([]BucketCount, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BucketCount
	for rows.Next() {
		var bc BucketCount
		if err := rows.Scan(&bc.Bucket, &bc.Count); err != nil {
			return nil, err
		}
		out = append(out, bc)
	}
	return out, rows.Err()
}
