package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qforge/qbank-backend/internal/model"
)

const subQuestionColumns = `s.id, s.kind, s.stem, s.choice_items, s.answer,
	 s.blank_number, s.analysis, s.created_at, s.user_id, u.display_name`

// SubQuestionRepository handles data access for the mix* sub-question kinds.
type SubQuestionRepository struct {
	pool *pgxpool.Pool
}

// NewSubQuestionRepository creates a new SubQuestionRepository.
func NewSubQuestionRepository(pool *pgxpool.Pool) *SubQuestionRepository {
	return &SubQuestionRepository{pool: pool}
}

// Create inserts a new sub-question.
func (r *SubQuestionRepository) Create(ctx context.Context, s *model.SubQuestion) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO sub_questions (kind, stem, choice_items, answer, blank_number, analysis, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		s.Kind, s.Stem, s.ChoiceItems, s.Answer, s.BlankNumber, nullStr(s.Analysis), s.UserID,
	).Scan(&s.ID, &s.CreatedAt)
}

// GetByID retrieves one sub-question of the given kind with its owner populated.
func (r *SubQuestionRepository) GetByID(ctx context.Context, kind model.SubQuestionKind, id uuid.UUID) (*model.SubQuestion, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+subQuestionColumns+`
		 FROM sub_questions s LEFT JOIN users u ON u.id = s.user_id
		 WHERE s.id = $1 AND s.kind = $2`, id, kind)

	s, err := scanSubQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List retrieves all sub-questions of a kind, newest first.
func (r *SubQuestionRepository) List(ctx context.Context, kind model.SubQuestionKind) ([]model.SubQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+subQuestionColumns+`
		 FROM sub_questions s LEFT JOIN users u ON u.id = s.user_id
		 WHERE s.kind = $1
		 ORDER BY s.created_at DESC`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.SubQuestion
	for rows.Next() {
		s, err := scanSubQuestion(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

// Update writes the mutable fields back.
func (r *SubQuestionRepository) Update(ctx context.Context, s *model.SubQuestion) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sub_questions SET stem = $1, choice_items = $2, answer = $3,
		   blank_number = $4, analysis = $5
		 WHERE id = $6 AND kind = $7`,
		s.Stem, s.ChoiceItems, s.Answer, s.BlankNumber, nullStr(s.Analysis), s.ID, s.Kind,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a sub-question.
func (r *SubQuestionRepository) Delete(ctx context.Context, kind model.SubQuestionKind, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM sub_questions WHERE id = $1 AND kind = $2`, id, kind)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSubQuestion(row pgx.Row) (*model.SubQuestion, error) {
	var s model.SubQuestion
	var analysis, ownerName *string
	if err := row.Scan(
		&s.ID, &s.Kind, &s.Stem, &s.ChoiceItems, &s.Answer,
		&s.BlankNumber, &analysis, &s.CreatedAt, &s.UserID, &ownerName,
	); err != nil {
		return nil, err
	}
	if analysis != nil {
		s.Analysis = *analysis
	}
	if s.UserID != nil && ownerName != nil {
		s.Owner = &model.Owner{ID: *s.UserID, DisplayName: *ownerName}
	}
	return &s, nil
}
