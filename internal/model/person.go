package model

import "time"

// Person is a registered individual with exactly five fingerprint file
// references. The five-count rule is enforced by the service layer at
// creation time, not by the store.
type Person struct {
	ID           int           `json:"id"`
	FullName     string        `json:"full_name"`
	CompanyName  string        `json:"company_name,omitempty"`
	JobTitle     string        `json:"job_title,omitempty"`
	FingerPrints []FingerPrint `json:"finger_prints,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// FingerPrint is a stored reference to a previously uploaded file. Path is an
// opaque string; no bytes live in the database. Rows are cascade-deleted with
// their Person.
type FingerPrint struct {
	ID        int       `json:"id"`
	Path      string    `json:"path"`
	PersonID  int       `json:"person_id"`
	CreatedAt time.Time `json:"created_at"`
}
