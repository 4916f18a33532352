package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qforge/qbank-backend/internal/model"
)

const tagColumns = `t.id, t.name, t.subject_id, t.created_at, t.user_id, u.display_name`

// TagRepository handles tag data access.
type TagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

// Create inserts a new tag.
func (r *TagRepository) Create(ctx context.Context, t *model.Tag) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO tags (name, subject_id, user_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		t.Name, t.SubjectID, t.UserID,
	).Scan(&t.ID, &t.CreatedAt)
}

// GetByID retrieves one tag with its owner populated.
func (r *TagRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+tagColumns+`
		 FROM tags t LEFT JOIN users u ON u.id = t.user_id
		 WHERE t.id = $1`, id)

	t, err := scanTag(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// List retrieves tags newest first, narrowed by the filter: a subject's
// tags, the shared (subject-less) ones, or the union of both.
func (r *TagRepository) List(ctx context.Context, f model.TagFilter) ([]model.Tag, error) {
	query := `SELECT ` + tagColumns + `
		 FROM tags t LEFT JOIN users u ON u.id = t.user_id`
	var args []interface{}

	switch {
	case f.SubjectID != nil && f.Shared:
		query += ` WHERE t.subject_id = $1 OR t.subject_id IS NULL`
		args = append(args, *f.SubjectID)
	case f.SubjectID != nil:
		query += ` WHERE t.subject_id = $1`
		args = append(args, *f.SubjectID)
	case f.Shared:
		query += ` WHERE t.subject_id IS NULL`
	}
	query += ` ORDER BY t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

// Update writes the mutable fields back.
func (r *TagRepository) Update(ctx context.Context, t *model.Tag) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tags SET name = $1, subject_id = $2 WHERE id = $3`,
		t.Name, t.SubjectID, t.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a tag.
func (r *TagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTag(row pgx.Row) (*model.Tag, error) {
	var t model.Tag
	var ownerName *string
	if err := row.Scan(&t.ID, &t.Name, &t.SubjectID, &t.CreatedAt, &t.UserID, &ownerName); err != nil {
		return nil, err
	}
	if t.UserID != nil && ownerName != nil {
		t.Owner = &model.Owner{ID: *t.UserID, DisplayName: *ownerName}
	}
	return &t, nil
}
