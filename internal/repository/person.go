package repository

import (
	"context"

	"fingerprintapi/internal/model"
)

// PersonRepository defines data access for persons and their fingerprint rows
// using SQL queries only. No business logic here — strictly persistence
// operations. The five-fingerprint rule is the caller's concern; Create stores
// whatever fingerprint paths it is given.
type PersonRepository interface {
	// Create inserts a person row and one finger_prints row per path, as a
	// single transaction. Returns the generated person id.
	Create(ctx context.Context, person *model.Person, paths []string) (int, error)

	// FindByID returns a person with its fingerprint rows loaded.
	// Returns sql.ErrNoRows when no such id exists.
	FindByID(ctx context.Context, id int) (*model.Person, error)

	// FindByFingerprintPath returns the person owning a fingerprint row whose
	// path exactly equals the given string. Returns sql.ErrNoRows when no row
	// matches. This lookup is the entirety of "verification".
	FindByFingerprintPath(ctx context.Context, path string) (*model.Person, error)

	// List returns a page of persons ordered by id ascending, each carrying
	// its fingerprint count, plus the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[PersonSummary], error)

	// Delete removes a person by id; fingerprint rows go with it via the
	// cascade. Returns sql.ErrNoRows when no row was deleted.
	Delete(ctx context.Context, id int) error
}

// PersonSummary is the listing projection: person fields plus how many
// fingerprint rows it owns, without loading the rows themselves.
type PersonSummary struct {
	ID               int    `json:"id"`
	FullName         string `json:"full_name"`
	CompanyName      string `json:"company_name,omitempty"`
	JobTitle         string `json:"job_title,omitempty"`
	FingerPrintCount int    `json:"finger_print_count"`
}
