package repository

import (
	"context"

	"fingerprintapi/internal/model"
)

// AuditRepository persists and queries the append-only fingerprint audit
// trail. Entries are created once and never updated or deleted.
type AuditRepository interface {
	// Create appends one audit entry. Callers treat failures as best-effort;
	// the repository itself just reports them.
	Create(ctx context.Context, entry *model.FingerPrintAudit) error

	// List returns a page of entries ordered by timestamp descending, newest
	// first, with the AND-combined optional filters applied.
	List(ctx context.Context, pq PageQuery, f AuditFilter) (*PageResult[model.FingerPrintAudit], error)
}

// AuditFilter holds optional audit query filters. Nil fields are ignored.
type AuditFilter struct {
	AuditType    *model.AuditType
	IsSuccessful *bool
	UserID       *int
}
