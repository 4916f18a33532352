package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qforge/qbank-backend/internal/model"
)

const subjectColumns = `s.id, s.name, s.code, s.is_default, s.created_at, s.user_id, u.display_name`

// SubjectRepository handles subject data access.
type SubjectRepository struct {
	pool *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

// Create inserts a new subject.
func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO subjects (name, code, is_default, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		s.Name, nullStr(s.Code), s.IsDefault, s.UserID,
	).Scan(&s.ID, &s.CreatedAt)
}

// GetByID retrieves one subject with its owner populated.
func (r *SubjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+subjectColumns+`
		 FROM subjects s LEFT JOIN users u ON u.id = s.user_id
		 WHERE s.id = $1`, id)

	s, err := scanSubject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// GetByName retrieves one subject by exact name. Used by seeding.
func (r *SubjectRepository) GetByName(ctx context.Context, name string) (*model.Subject, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+subjectColumns+`
		 FROM subjects s LEFT JOIN users u ON u.id = s.user_id
		 WHERE s.name = $1`, name)

	s, err := scanSubject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListPaginated retrieves one page of subjects, newest first, plus the
// total row count for page math.
func (r *SubjectRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.Subject, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subjects`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+subjectColumns+`
		 FROM subjects s LEFT JOIN users u ON u.id = s.user_id
		 ORDER BY s.created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, 0, err
		}
		subjects = append(subjects, *s)
	}
	return subjects, total, rows.Err()
}

// Update writes the mutable fields back.
func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subjects SET name = $1, code = $2, is_default = $3 WHERE id = $4`,
		s.Name, nullStr(s.Code), s.IsDefault, s.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a subject.
func (r *SubjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSubject(row pgx.Row) (*model.Subject, error) {
	var s model.Subject
	var code, ownerName *string
	if err := row.Scan(&s.ID, &s.Name, &code, &s.IsDefault, &s.CreatedAt, &s.UserID, &ownerName); err != nil {
		return nil, err
	}
	if code != nil {
		s.Code = *code
	}
	if s.UserID != nil && ownerName != nil {
		s.Owner = &model.Owner{ID: *s.UserID, DisplayName: *ownerName}
	}
	return &s, nil
}
