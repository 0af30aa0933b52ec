package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fingerprintapi/internal/model"
	"fingerprintapi/internal/repository"
)

const requiredFingerprints = 5

var (
	ErrPersonNotFound   = errors.New("person not found")
	ErrFullNameRequired = errors.New("full name is required")
	ErrFingerprintCount = errors.New("exactly 5 fingerprint paths are required")
	ErrPathRequired     = errors.New("fingerprint path is required")
)

// AddPersonRequest is the input for registering a person.
type AddPersonRequest struct {
	FullName     string   `json:"full_name"`
	CompanyName  string   `json:"company_name"`
	JobTitle     string   `json:"job_title"`
	FingerPrints []string `json:"finger_prints"`
}

// PersonResult is the service-level person DTO. FingerPrintCount is zero when
// the underlying lookup did not load fingerprint rows (e.g. verification).
type PersonResult struct {
	ID               int    `json:"id"`
	FullName         string `json:"full_name"`
	CompanyName      string `json:"company_name,omitempty"`
	JobTitle         string `json:"job_title,omitempty"`
	FingerPrintCount int    `json:"finger_print_count"`
}

// PersonListResult is the paginated person listing envelope.
type PersonListResult struct {
	Items      []repository.PersonSummary `json:"items"`
	Page       int                        `json:"page"`
	TotalPages int                        `json:"totalPages"`
	TotalCount int                        `json:"totalCount"`
}

// AuditListResult is the paginated audit listing envelope.
type AuditListResult struct {
	Items      []model.FingerPrintAudit `json:"items"`
	Page       int                      `json:"page"`
	TotalPages int                      `json:"totalPages"`
	TotalCount int                      `json:"totalCount"`
}

// PersonService defines the person/fingerprint record lifecycle use cases.
// Add, Verify and Delete produce audit trail entries as a side effect; audit
// persistence failures never affect the primary operation's outcome.
type PersonService interface {
	// Add validates the request (non-empty full name, exactly 5 non-empty
	// fingerprint paths) and stores the person with its fingerprint rows.
	Add(ctx context.Context, req AddPersonRequest) (int, error)

	// Verify resolves the person owning the exact fingerprint path. This is a
	// string lookup of a stored reference, not a biometric comparison.
	Verify(ctx context.Context, fingerprintPath string) (*PersonResult, error)

	// List returns a page of persons, id ascending.
	List(ctx context.Context, page, pageSize int) (*PersonListResult, error)

	// Get returns a single person by id with its fingerprint count.
	Get(ctx context.Context, id int) (*PersonResult, error)

	// Delete removes a person; fingerprint rows cascade.
	Delete(ctx context.Context, id int) error

	// AuditLogs returns audit entries newest first with optional filters.
	AuditLogs(ctx context.Context, page, pageSize int, f repository.AuditFilter) (*AuditListResult, error)
}

type personService struct {
	persons repository.PersonRepository
	audits  repository.AuditRepository
}

// NewPersonService constructs a new PersonService.
func NewPersonService(persons repository.PersonRepository, audits repository.AuditRepository) PersonService {
	return &personService{persons: persons, audits: audits}
}

func (s *personService) Add(ctx context.Context, req AddPersonRequest) (int, error) {
	// Validation failures are rejected before touching storage and produce no
	// audit entry.
	if strings.TrimSpace(req.FullName) == "" {
		return 0, ErrFullNameRequired
	}
	if len(req.FingerPrints) != requiredFingerprints {
		return 0, ErrFingerprintCount
	}
	for _, p := range req.FingerPrints {
		if strings.TrimSpace(p) == "" {
			return 0, ErrFingerprintCount
		}
	}

	person := &model.Person{
		FullName:    req.FullName,
		CompanyName: req.CompanyName,
		JobTitle:    req.JobTitle,
		CreatedAt:   time.Now().UTC(),
	}
	id, err := s.persons.Create(ctx, person, req.FingerPrints)
	if err != nil {
		s.audit(ctx, 0, model.AuditTypeAddFingerPrint, false,
			fmt.Sprintf("Failed to add person: %v", err))
		return 0, fmt.Errorf("add person: %w", err)
	}

	s.audit(ctx, 0, model.AuditTypeAddFingerPrint, true,
		fmt.Sprintf("Person '%s' added successfully with 5 fingerprints", req.FullName))
	return id, nil
}

func (s *personService) Verify(ctx context.Context, fingerprintPath string) (*PersonResult, error) {
	if strings.TrimSpace(fingerprintPath) == "" {
		return nil, ErrPathRequired
	}

	p, err := s.persons.FindByFingerprintPath(ctx, fingerprintPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.audit(ctx, 0, model.AuditTypeVerifyFingerPrint, false,
				fmt.Sprintf("Verification failed for fingerprint path: %s", fingerprintPath))
			return nil, ErrPersonNotFound
		}
		s.audit(ctx, 0, model.AuditTypeVerifyFingerPrint, false,
			fmt.Sprintf("Verification error: %v", err))
		return nil, fmt.Errorf("verify person: %w", err)
	}

	// A successful verification is attributed to the matched person.
	s.audit(ctx, p.ID, model.AuditTypeVerifyFingerPrint, true,
		fmt.Sprintf("Person '%s' verified successfully using fingerprint path: %s", p.FullName, fingerprintPath))

	return &PersonResult{
		ID:               p.ID,
		FullName:         p.FullName,
		CompanyName:      p.CompanyName,
		JobTitle:         p.JobTitle,
		FingerPrintCount: len(p.FingerPrints),
	}, nil
}

func (s *personService) List(ctx context.Context, page, pageSize int) (*PersonListResult, error) {
	page, pageSize = clampPage(page, pageSize)

	res, err := s.persons.List(ctx, repository.PageQuery{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}
	return &PersonListResult{
		Items:      res.Items,
		Page:       page,
		TotalPages: totalPages(res.Total, pageSize),
		TotalCount: res.Total,
	}, nil
}

func (s *personService) Get(ctx context.Context, id int) (*PersonResult, error) {
	p, err := s.persons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return &PersonResult{
		ID:               p.ID,
		FullName:         p.FullName,
		CompanyName:      p.CompanyName,
		JobTitle:         p.JobTitle,
		FingerPrintCount: len(p.FingerPrints),
	}, nil
}

func (s *personService) Delete(ctx context.Context, id int) error {
	if err := s.persons.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPersonNotFound
		}
		return fmt.Errorf("delete person: %w", err)
	}

	s.audit(ctx, id, model.AuditTypeDeletePerson, true,
		fmt.Sprintf("Person with ID %d deleted successfully", id))
	return nil
}

func (s *personService) AuditLogs(ctx context.Context, page, pageSize int, f repository.AuditFilter) (*AuditListResult, error) {
	page, pageSize = clampPage(page, pageSize)

	res, err := s.audits.List(ctx, repository.PageQuery{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}, f)
	if err != nil {
		return nil, err
	}
	return &AuditListResult{
		Items:      res.Items,
		Page:       page,
		TotalPages: totalPages(res.Total, pageSize),
		TotalCount: res.Total,
	}, nil
}

// audit appends a trail entry, best-effort. A failed write is logged and
// swallowed so it can never change the outcome of the operation being audited.
func (s *personService) audit(ctx context.Context, userID int, t model.AuditType, ok bool, details string) {
	entry := &model.FingerPrintAudit{
		UserID:       userID,
		Timestamp:    time.Now().UTC(),
		AuditType:    t,
		IsSuccessful: ok,
		Details:      details,
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		b, _ := json.Marshal(map[string]any{
			"ts":         time.Now().UTC().Format(time.RFC3339Nano),
			"level":      "warn",
			"msg":        "audit_write_failed",
			"audit_type": t.String(),
			"error":      err.Error(),
		})
		log.SetFlags(0)
		log.Println(string(b))
	}
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize
}

func totalPages(total, pageSize int) int {
	if total == 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
