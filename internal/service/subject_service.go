package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qforge/qbank-backend/internal/model"
)

// SubjectStore is the persistence contract for subjects.
type SubjectStore interface {
	Create(ctx context.Context, s *model.Subject) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Subject, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]model.Subject, int, error)
	Update(ctx context.Context, s *model.Subject) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubjectService handles subject business logic.
type SubjectService struct {
	subjects SubjectStore
	log      zerolog.Logger
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(subjects SubjectStore, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjects: subjects,
		log:      log.With().Str("component", "subject_service").Logger(),
	}
}

// Create persists a new subject.
func (s *SubjectService) Create(ctx context.Context, in *model.SubjectInput, userID *uuid.UUID) (*model.Subject, error) {
	sub := &model.Subject{
		Name:      in.Name,
		Code:      in.Code,
		IsDefault: in.IsDefault,
		UserID:    userID,
	}
	if err := s.subjects.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetByID retrieves a subject.
func (s *SubjectService) GetByID(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	return s.subjects.GetByID(ctx, id)
}

// List retrieves one page of subjects, newest first. Page defaults to 1
// and limit to 10, matching the original API defaults.
func (s *SubjectService) List(ctx context.Context, page, limit int) (*model.SubjectPage, error) {
	page, limit = clampPage(page, limit)

	subjects, total, err := s.subjects.ListPaginated(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []model.Subject{}
	}

	return &model.SubjectPage{
		Docs:  subjects,
		Total: total,
		Limit: limit,
		Page:  page,
		Pages: totalPages(total, limit),
	}, nil
}

// Update shallow-merges the body into a loaded subject and saves it.
func (s *SubjectService) Update(ctx context.Context, sub *model.Subject, in *model.SubjectUpdate) error {
	if in.Name != nil {
		sub.Name = *in.Name
	}
	if in.Code != nil {
		sub.Code = *in.Code
	}
	if in.IsDefault != nil {
		sub.IsDefault = *in.IsDefault
	}
	return s.subjects.Update(ctx, sub)
}

// Delete removes a subject.
func (s *SubjectService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.subjects.Delete(ctx, id)
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func totalPages(total, limit int) int {
	return (total + limit - 1) / limit
}
