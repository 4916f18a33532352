package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qforge/qbank-backend/internal/model"
)

// questionColumns is the shared select list, owner display name included.
const questionColumns = `q.id, q.kind, q.stem, q.difficulty, q.description, q.choice_items,
	 q.answer, q.blank_number, q.sub_quests, q.subject_id, q.tags, q.analysis,
	 q.random_x, q.random_y, q.created_at, q.user_id, u.display_name`

// QuestionRepository handles data access for all question kinds. The kind
// discriminator keeps the six variants in one table and lets the selection
// engine issue a single parameterized query shape.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// Create inserts a new question. The sampling coordinate must already be
// set on q; it is written once here and never updated afterwards.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions
		 (kind, stem, difficulty, description, choice_items, answer, blank_number,
		  sub_quests, subject_id, tags, analysis, random_x, random_y, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, created_at`,
		q.Kind, q.Stem, q.Difficulty, nullStr(q.Description), q.ChoiceItems, q.Answer,
		q.BlankNumber, q.SubQuests, q.SubjectID, q.Tags, nullStr(q.Analysis),
		q.Random[0], q.Random[1], q.UserID,
	).Scan(&q.ID, &q.CreatedAt)
}

// GetByID retrieves one question of the given kind with its owner populated.
func (r *QuestionRepository) GetByID(ctx context.Context, kind model.QuestionKind, id uuid.UUID) (*model.Question, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+`
		 FROM questions q LEFT JOIN users u ON u.id = q.user_id
		 WHERE q.id = $1 AND q.kind = $2`, id, kind)

	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

// List retrieves all questions of a kind, newest first, owners populated
// with display name only.
func (r *QuestionRepository) List(ctx context.Context, kind model.QuestionKind) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions q LEFT JOIN users u ON u.id = q.user_id
		 WHERE q.kind = $1
		 ORDER BY q.created_at DESC`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectQuestions(rows)
}

// SelectNear runs one selection-engine query: subject + difficulty window +
// tag superset, ranked by squared distance to the sampling anchor. This is
// the Postgres counterpart of a nearest-neighbor lookup on the 2-D
// coordinate every question receives at creation.
func (r *QuestionRepository) SelectNear(ctx context.Context, sel model.SelectionQuery) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + `
		 FROM questions q LEFT JOIN users u ON u.id = q.user_id
		 WHERE q.kind = $1 AND q.subject_id = $2
		   AND q.difficulty BETWEEN $3 AND $4`
	args := []interface{}{sel.Kind, sel.SubjectID, sel.MinDifficulty, sel.MaxDifficulty}

	if len(sel.Tags) > 0 {
		args = append(args, sel.Tags)
		query += ` AND q.tags @> $5`
	}

	args = append(args, sel.AnchorX, sel.AnchorY, sel.Limit)
	n := len(args)
	query += ` ORDER BY (q.random_x - $` + strconv.Itoa(n-2) + `)^2 + (q.random_y - $` + strconv.Itoa(n-1) + `)^2
		 LIMIT $` + strconv.Itoa(n)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectQuestions(rows)
}

// Update writes every mutable field back. The sampling coordinate, creation
// time and owner are deliberately excluded.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions SET
		   stem = $1, difficulty = $2, description = $3, choice_items = $4,
		   answer = $5, blank_number = $6, sub_quests = $7, subject_id = $8,
		   tags = $9, analysis = $10
		 WHERE id = $11 AND kind = $12`,
		q.Stem, q.Difficulty, nullStr(q.Description), q.ChoiceItems, q.Answer,
		q.BlankNumber, q.SubQuests, q.SubjectID, q.Tags, nullStr(q.Analysis),
		q.ID, q.Kind,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a question. Hard delete, no tombstone.
func (r *QuestionRepository) Delete(ctx context.Context, kind model.QuestionKind, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM questions WHERE id = $1 AND kind = $2`, id, kind)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanQuestion(row pgx.Row) (*model.Question, error) {
	var q model.Question
	var description, analysis, ownerName *string
	if err := row.Scan(
		&q.ID, &q.Kind, &q.Stem, &q.Difficulty, &description, &q.ChoiceItems,
		&q.Answer, &q.BlankNumber, &q.SubQuests, &q.SubjectID, &q.Tags, &analysis,
		&q.Random[0], &q.Random[1], &q.CreatedAt, &q.UserID, &ownerName,
	); err != nil {
		return nil, err
	}
	if description != nil {
		q.Description = *description
	}
	if analysis != nil {
		q.Analysis = *analysis
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	if q.UserID != nil && ownerName != nil {
		q.Owner = &model.Owner{ID: *q.UserID, DisplayName: *ownerName}
	}
	return &q, nil
}

func collectQuestions(rows pgx.Rows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}
