package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"fingerprintapi/internal/model"
	"fingerprintapi/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Create appends one audit row.
func (r *AuditPostgres) Create(ctx context.Context, entry *model.FingerPrintAudit) error {
	const q = `
		INSERT INTO finger_print_audits (user_id, timestamp, audit_type, is_successful, details)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, q,
		entry.UserID,
		entry.Timestamp,
		int(entry.AuditType),
		entry.IsSuccessful,
		entry.Details,
	)
	return err
}

// List returns audit rows newest first with the optional filters AND-combined.
// The WHERE clause is assembled from the filters that are actually set; both
// the count and page queries share it.
func (r *AuditPostgres) List(ctx context.Context, pq repository.PageQuery, f repository.AuditFilter) (*repository.PageResult[model.FingerPrintAudit], error) {
	var conds []string
	var args []any

	if f.AuditType != nil {
		args = append(args, int(*f.AuditType))
		conds = append(conds, fmt.Sprintf("audit_type = $%d", len(args)))
	}
	if f.IsSuccessful != nil {
		args = append(args, *f.IsSuccessful)
		conds = append(conds, fmt.Sprintf("is_successful = $%d", len(args)))
	}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	qCount := "SELECT COUNT(*) FROM finger_print_audits" + where
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := fmt.Sprintf(`
		SELECT id, user_id, timestamp, audit_type, is_successful, COALESCE(details, '')
		FROM finger_print_audits%s
		ORDER BY timestamp DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, pq.Limit, pq.Offset)

	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.FingerPrintAudit, 0)
	for rows.Next() {
		var a model.FingerPrintAudit
		var at int
		if err := rows.Scan(&a.ID, &a.UserID, &a.Timestamp, &at, &a.IsSuccessful, &a.Details); err != nil {
			return nil, err
		}
		a.AuditType = model.AuditType(at)
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.FingerPrintAudit]{
		Items: items,
		Total: total,
	}, nil
}
