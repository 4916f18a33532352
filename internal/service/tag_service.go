package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qforge/qbank-backend/internal/model"
)

// TagStore is the persistence contract for tags.
type TagStore interface {
	Create(ctx context.Context, t *model.Tag) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	List(ctx context.Context, f model.TagFilter) ([]model.Tag, error)
	Update(ctx context.Context, t *model.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TagService handles tag business logic.
type TagService struct {
	tags TagStore
	log  zerolog.Logger
}

// NewTagService creates a new TagService.
func NewTagService(tags TagStore, log zerolog.Logger) *TagService {
	return &TagService{
		tags: tags,
		log:  log.With().Str("component", "tag_service").Logger(),
	}
}

// Create persists a new tag. An empty subject makes the tag shared.
func (s *TagService) Create(ctx context.Context, in *model.TagInput, userID *uuid.UUID) (*model.Tag, error) {
	t := &model.Tag{
		Name:   in.Name,
		UserID: userID,
	}
	if in.Subject != "" {
		subjectID, err := uuid.Parse(in.Subject)
		if err != nil {
			return nil, ErrInvalidSubject
		}
		t.SubjectID = &subjectID
	}
	if err := s.tags.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a tag.
func (s *TagService) GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	return s.tags.GetByID(ctx, id)
}

// List retrieves tags narrowed by the filter, newest first.
func (s *TagService) List(ctx context.Context, f model.TagFilter) ([]model.Tag, error) {
	return s.tags.List(ctx, f)
}

// Update shallow-merges the body into a loaded tag and saves it.
func (s *TagService) Update(ctx context.Context, t *model.Tag, in *model.TagUpdate) error {
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Subject != nil {
		if *in.Subject == "" {
			t.SubjectID = nil
		} else {
			subjectID, err := uuid.Parse(*in.Subject)
			if err != nil {
				return ErrInvalidSubject
			}
			t.SubjectID = &subjectID
		}
	}
	return s.tags.Update(ctx, t)
}

// Delete removes a tag.
func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tags.Delete(ctx, id)
}
