package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qforge/qbank-backend/internal/model"
)

const templateColumns = `t.id, t.title, t.subject_id, t.is_default, t.paper_structs,
	 t.created_at, t.user_id, u.display_name`

// TemplateRepository handles template data access. The ordered paper-struct
// list is stored as one jsonb document.
type TemplateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository creates a new TemplateRepository.
func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

// Create inserts a new template.
func (r *TemplateRepository) Create(ctx context.Context, t *model.Template) error {
	structs, err := json.Marshal(t.PaperStructs)
	if err != nil {
		return fmt.Errorf("marshal paper structs: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO templates (title, subject_id, is_default, paper_structs, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		t.Title, t.SubjectID, t.IsDefault, structs, t.UserID,
	).Scan(&t.ID, &t.CreatedAt)
}

// GetByID retrieves one template with its owner populated.
func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+templateColumns+`
		 FROM templates t LEFT JOIN users u ON u.id = t.user_id
		 WHERE t.id = $1`, id)

	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// List retrieves all templates, newest first.
func (r *TemplateRepository) List(ctx context.Context) ([]model.Template, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+templateColumns+`
		 FROM templates t LEFT JOIN users u ON u.id = t.user_id
		 ORDER BY t.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []model.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// Update writes the mutable fields back.
func (r *TemplateRepository) Update(ctx context.Context, t *model.Template) error {
	structs, err := json.Marshal(t.PaperStructs)
	if err != nil {
		return fmt.Errorf("marshal paper structs: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE templates SET title = $1, subject_id = $2, is_default = $3, paper_structs = $4
		 WHERE id = $5`,
		t.Title, t.SubjectID, t.IsDefault, structs, t.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a template.
func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTemplate(row pgx.Row) (*model.Template, error) {
	var t model.Template
	var structs []byte
	var ownerName *string
	if err := row.Scan(&t.ID, &t.Title, &t.SubjectID, &t.IsDefault, &structs,
		&t.CreatedAt, &t.UserID, &ownerName); err != nil {
		return nil, err
	}
	if len(structs) > 0 {
		if err := json.Unmarshal(structs, &t.PaperStructs); err != nil {
			return nil, fmt.Errorf("unmarshal paper structs: %w", err)
		}
	}
	if t.PaperStructs == nil {
		t.PaperStructs = []model.PaperStruct{}
	}
	if t.UserID != nil && ownerName != nil {
		t.Owner = &model.Owner{ID: *t.UserID, DisplayName: *ownerName}
	}
	return &t, nil
}
