package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qforge/qbank-backend/internal/model"
)

const questTemplateColumns = `q.id, q.is_default, q.subject, q.type, q.title, q.description,
	 q.question_number, q.created_at, q.user_id, u.display_name`

// QuestTemplateRepository handles quest-template data access.
type QuestTemplateRepository struct {
	pool *pgxpool.Pool
}

// NewQuestTemplateRepository creates a new QuestTemplateRepository.
func NewQuestTemplateRepository(pool *pgxpool.Pool) *QuestTemplateRepository {
	return &QuestTemplateRepository{pool: pool}
}

// Create inserts a new quest template.
func (r *QuestTemplateRepository) Create(ctx context.Context, q *model.QuestTemplate) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quest_templates (is_default, subject, type, title, description, question_number, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		q.IsDefault, q.Subject, q.Type, q.Title, nullStr(q.Description), q.QuestionNumber, q.UserID,
	).Scan(&q.ID, &q.CreatedAt)
}

// GetByID retrieves one quest template with its owner populated.
func (r *QuestTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.QuestTemplate, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+questTemplateColumns+`
		 FROM quest_templates q LEFT JOIN users u ON u.id = q.user_id
		 WHERE q.id = $1`, id)

	q, err := scanQuestTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

// GetByTitle retrieves one quest template by exact title. Used by seeding.
func (r *QuestTemplateRepository) GetByTitle(ctx context.Context, title string) (*model.QuestTemplate, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+questTemplateColumns+`
		 FROM quest_templates q LEFT JOIN users u ON u.id = q.user_id
		 WHERE q.title = $1`, title)

	q, err := scanQuestTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

// List retrieves all quest templates, newest first.
func (r *QuestTemplateRepository) List(ctx context.Context) ([]model.QuestTemplate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questTemplateColumns+`
		 FROM quest_templates q LEFT JOIN users u ON u.id = q.user_id
		 ORDER BY q.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []model.QuestTemplate
	for rows.Next() {
		q, err := scanQuestTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *q)
	}
	return templates, rows.Err()
}

// Update writes the mutable fields back.
func (r *QuestTemplateRepository) Update(ctx context.Context, q *model.QuestTemplate) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE quest_templates SET is_default = $1, subject = $2, type = $3,
		   title = $4, description = $5, question_number = $6
		 WHERE id = $7`,
		q.IsDefault, q.Subject, q.Type, q.Title, nullStr(q.Description), q.QuestionNumber, q.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a quest template.
func (r *QuestTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quest_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanQuestTemplate(row pgx.Row) (*model.QuestTemplate, error) {
	var q model.QuestTemplate
	var description, ownerName *string
	if err := row.Scan(&q.ID, &q.IsDefault, &q.Subject, &q.Type, &q.Title, &description,
		&q.QuestionNumber, &q.CreatedAt, &q.UserID, &ownerName); err != nil {
		return nil, err
	}
	if description != nil {
		q.Description = *description
	}
	if q.UserID != nil && ownerName != nil {
		q.Owner = &model.Owner{ID: *q.UserID, DisplayName: *ownerName}
	}
	return &q, nil
}
