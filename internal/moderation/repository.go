package moderation

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

// Repository handles moderation data operations
type Repository struct {
	db *sql.DB
}

var _ RepositoryInterface = (*Repository)(nil)

// NewRepository creates a new moderation repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertQueueItem adds an item to the moderation queue
func (r *Repository) InsertQueueItem(ctx context.Context, item *QueueItem) error {
	payloadJSON, err := json.Marshal(item.Payload)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO moderation_queue (id, item_type, profile_id, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.ExecContext(ctx, query,
		item.ID, item.ItemType, item.ProfileID, payloadJSON, item.Status, item.CreatedAt)
	return err
}

// ListQueue returns queue items filtered by status
func (r *Repository) ListQueue(ctx context.Context, status string, limit, offset int) ([]*QueueItem, error) {
	query := `
		SELECT id, item_type, profile_id, payload, status, created_at, resolved_at, resolved_by
		FROM moderation_queue
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*QueueItem
	for rows.Next() {
		var item QueueItem
		var payloadJSON []byte
		var resolvedBy sql.NullString
		var resolvedAt sql.NullTime
		if err := rows.Scan(&item.ID, &item.ItemType, &item.ProfileID,
			&payloadJSON, &item.Status, &item.CreatedAt, &resolvedAt, &resolvedBy); err != nil {
			return nil, err
		}
		if len(payloadJSON) > 0 {
			if err := json.Unmarshal(payloadJSON, &item.Payload); err != nil {
				return nil, err
			}
		}
		if resolvedAt.Valid {
			item.ResolvedAt = &resolvedAt.Time
		}
		if resolvedBy.Valid {
			item.ResolvedBy = &resolvedBy.String
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// ResolveQueueItem marks a pending item resolved
func (r *Repository) ResolveQueueItem(ctx context.Context, id uuid.UUID, resolvedBy string) error {
	query := `
		UPDATE moderation_queue
		SET status = $2, resolved_at = NOW(), resolved_by = $3
		WHERE id = $1 AND status = $4
	`
	res, err := r.db.ExecContext(ctx, query, id, ItemResolved, resolvedBy, ItemPending)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// InsertReport files a new report
func (r *Repository) InsertReport(ctx context.Context, report *Report) error {
	query := `
		INSERT INTO reports (id, reporter_profile_id, reported_profile_id, reason, details, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.ReporterProfileID, report.ReportedProfileID,
		report.Reason, report.Details, report.Status, report.CreatedAt)
	return err
}

// ListReports returns reports filtered by status
func (r *Repository) ListReports(ctx context.Context, status string, limit, offset int) ([]*Report, error) {
	query := `
		SELECT id, reporter_profile_id, reported_profile_id, reason, details, status, created_at, resolved_at, resolved_by
		FROM reports
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		var rep Report
		var resolvedBy sql.NullString
		var resolvedAt sql.NullTime
		if err := rows.Scan(&rep.ID, &rep.ReporterProfileID, &rep.ReportedProfileID,
			&rep.Reason, &rep.Details, &rep.Status, &rep.CreatedAt, &resolvedAt, &resolvedBy); err != nil {
			return nil, err
		}
		if resolvedAt.Valid {
			rep.ResolvedAt = &resolvedAt.Time
		}
		if resolvedBy.Valid {
			rep.ResolvedBy = &resolvedBy.String
		}
		reports = append(reports, &rep)
	}
	return reports, rows.Err()
}

// SetReportStatus transitions an open report to resolved or rejected
func (r *Repository) SetReportStatus(ctx context.Context, id uuid.UUID, status, resolvedBy string) error {
	query := `
		UPDATE reports
		SET status = $2, resolved_at = NOW(), resolved_by = $3
		WHERE id = $1 AND status = $4
	`
	res, err := r.db.ExecContext(ctx, query, id, status, resolvedBy, ReportOpen)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
