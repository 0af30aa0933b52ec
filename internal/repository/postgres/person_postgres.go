package postgres

import (
	"context"
	"database/sql"

	"fingerprintapi/internal/model"
	"fingerprintapi/internal/repository"
)

// PersonPostgres is a PostgreSQL implementation of repository.PersonRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type PersonPostgres struct {
	db *sql.DB
}

// NewPersonPostgres creates a new PersonPostgres repository.
func NewPersonPostgres(db *sql.DB) *PersonPostgres {
	return &PersonPostgres{db: db}
}

var _ repository.PersonRepository = (*PersonPostgres)(nil)

// Create inserts the person and its fingerprint rows in one transaction.
func (r *PersonPostgres) Create(ctx context.Context, person *model.Person, paths []string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	const qPerson = `
		INSERT INTO persons (full_name, company_name, job_title, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int
	if err := tx.QueryRowContext(ctx, qPerson,
		person.FullName,
		nullIfEmpty(person.CompanyName),
		nullIfEmpty(person.JobTitle),
		person.CreatedAt,
	).Scan(&id); err != nil {
		return 0, err
	}

	const qPrint = `
		INSERT INTO finger_prints (path, person_id, created_at)
		VALUES ($1, $2, $3)
	`
	for _, p := range paths {
		if _, err := tx.ExecContext(ctx, qPrint, p, id, person.CreatedAt); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// FindByID fetches a person and its fingerprint rows.
func (r *PersonPostgres) FindByID(ctx context.Context, id int) (*model.Person, error) {
	const qPerson = `
		SELECT id, full_name, COALESCE(company_name, ''), COALESCE(job_title, ''), created_at
		FROM persons
		WHERE id = $1
	`
	var p model.Person
	if err := r.db.QueryRowContext(ctx, qPerson, id).Scan(
		&p.ID,
		&p.FullName,
		&p.CompanyName,
		&p.JobTitle,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}

	const qPrints = `
		SELECT id, path, person_id, created_at
		FROM finger_prints
		WHERE person_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, qPrints, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var fp model.FingerPrint
		if err := rows.Scan(&fp.ID, &fp.Path, &fp.PersonID, &fp.CreatedAt); err != nil {
			return nil, err
		}
		p.FingerPrints = append(p.FingerPrints, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByFingerprintPath resolves the owner of an exact path match. When the
// same path is referenced by more than one person the lowest person id wins,
// deterministically.
func (r *PersonPostgres) FindByFingerprintPath(ctx context.Context, path string) (*model.Person, error) {
	const q = `
		SELECT p.id, p.full_name, COALESCE(p.company_name, ''), COALESCE(p.job_title, ''), p.created_at
		FROM persons p
		JOIN finger_prints f ON f.person_id = p.id
		WHERE f.path = $1
		ORDER BY p.id
		LIMIT 1
	`
	var p model.Person
	if err := r.db.QueryRowContext(ctx, q, path).Scan(
		&p.ID,
		&p.FullName,
		&p.CompanyName,
		&p.JobTitle,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns persons with fingerprint counts using LIMIT/OFFSET pagination
// and a total count.
func (r *PersonPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[repository.PersonSummary], error) {
	const qCount = `SELECT COUNT(*) FROM persons`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT p.id, p.full_name, COALESCE(p.company_name, ''), COALESCE(p.job_title, ''), COUNT(f.id)
		FROM persons p
		LEFT JOIN finger_prints f ON f.person_id = p.id
		GROUP BY p.id, p.full_name, p.company_name, p.job_title
		ORDER BY p.id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]repository.PersonSummary, 0)
	for rows.Next() {
		var s repository.PersonSummary
		if err := rows.Scan(&s.ID, &s.FullName, &s.CompanyName, &s.JobTitle, &s.FingerPrintCount); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[repository.PersonSummary]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a person by id. Fingerprint rows follow via ON DELETE CASCADE.
// Returns sql.ErrNoRows when nothing matched so callers can answer not-found.
func (r *PersonPostgres) Delete(ctx context.Context, id int) error {
	const q = `DELETE FROM persons WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
