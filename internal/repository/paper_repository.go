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

const paperColumns = `p.id, p.title, p.subject_id, p.sections, p.created_at, p.user_id, u.display_name`

// PaperRepository handles paper data access. Sections are a denormalized
// snapshot written as one jsonb document in a single insert — an assembled
// paper is never persisted piecemeal.
type PaperRepository struct {
	pool *pgxpool.Pool
}

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(pool *pgxpool.Pool) *PaperRepository {
	return &PaperRepository{pool: pool}
}

// Create inserts the whole assembled paper, sections included, atomically.
func (r *PaperRepository) Create(ctx context.Context, p *model.Paper) error {
	sections, err := json.Marshal(p.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO papers (title, subject_id, sections, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		p.Title, p.SubjectID, sections, p.UserID,
	).Scan(&p.ID, &p.CreatedAt)
}

// GetByID retrieves one paper with its owner populated.
func (r *PaperRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Paper, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+paperColumns+`
		 FROM papers p LEFT JOIN users u ON u.id = p.user_id
		 WHERE p.id = $1`, id)

	p, err := scanPaper(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List retrieves all papers, newest first.
func (r *PaperRepository) List(ctx context.Context) ([]model.Paper, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paperColumns+`
		 FROM papers p LEFT JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var papers []model.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, *p)
	}
	return papers, rows.Err()
}

// Update writes title and subject back. The section snapshot is immutable
// after assembly.
func (r *PaperRepository) Update(ctx context.Context, p *model.Paper) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE papers SET title = $1, subject_id = $2 WHERE id = $3`,
		p.Title, p.SubjectID, p.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a paper.
func (r *PaperRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM papers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPaper(row pgx.Row) (*model.Paper, error) {
	var p model.Paper
	var sections []byte
	var ownerName *string
	if err := row.Scan(&p.ID, &p.Title, &p.SubjectID, &sections, &p.CreatedAt, &p.UserID, &ownerName); err != nil {
		return nil, err
	}
	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &p.Sections); err != nil {
			return nil, fmt.Errorf("unmarshal sections: %w", err)
		}
	}
	if p.Sections == nil {
		p.Sections = []model.Section{}
	}
	if p.UserID != nil && ownerName != nil {
		p.Owner = &model.Owner{ID: *p.UserID, DisplayName: *ownerName}
	}
	return &p, nil
}
