package model

import "time"

// AuditType identifies the operation an audit entry records.
type AuditType int

const (
	AuditTypeAddFingerPrint    AuditType = 1
	AuditTypeVerifyFingerPrint AuditType = 2
	// AuditTypeDeletePerson is distinct from AuditTypeAddFingerPrint so that
	// deletions are not logged under the add type.
	AuditTypeDeletePerson AuditType = 3
)

// Valid reports whether t is one of the known audit types.
func (t AuditType) Valid() bool {
	return t >= AuditTypeAddFingerPrint && t <= AuditTypeDeletePerson
}

func (t AuditType) String() string {
	switch t {
	case AuditTypeAddFingerPrint:
		return "add_fingerprint"
	case AuditTypeVerifyFingerPrint:
		return "verify_fingerprint"
	case AuditTypeDeletePerson:
		return "delete_person"
	default:
		return "unknown"
	}
}

// FingerPrintAudit is an append-only record of an add/verify/delete attempt.
// Entries are never updated or deleted. UserID is 0 when the attempt is not
// attributable to a specific caller.
type FingerPrintAudit struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	Timestamp    time.Time `json:"timestamp"`
	AuditType    AuditType `json:"audit_type"`
	IsSuccessful bool      `json:"is_successful"`
	Details      string    `json:"details,omitempty"`
}
