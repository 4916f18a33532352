package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qforge/qbank-backend/internal/model"
)

// TemplateStore is the persistence contract for templates.
type TemplateStore interface {
	Create(ctx context.Context, t *model.Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Template, error)
	List(ctx context.Context) ([]model.Template, error)
	Update(ctx context.Context, t *model.Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TemplateService handles template business logic.
type TemplateService struct {
	templates TemplateStore
	log       zerolog.Logger
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(templates TemplateStore, log zerolog.Logger) *TemplateService {
	return &TemplateService{
		templates: templates,
		log:       log.With().Str("component", "template_service").Logger(),
	}
}

// Create persists a new template.
func (s *TemplateService) Create(ctx context.Context, in *model.TemplateInput, userID *uuid.UUID) (*model.Template, error) {
	t := &model.Template{
		Title:        in.Title,
		IsDefault:    in.IsDefault,
		PaperStructs: in.PaperStructs,
		UserID:       userID,
	}
	if t.PaperStructs == nil {
		t.PaperStructs = []model.PaperStruct{}
	}
	if in.Subject != "" {
		subjectID, err := uuid.Parse(in.Subject)
		if err != nil {
			return nil, ErrInvalidSubject
		}
		t.SubjectID = &subjectID
	}
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a template.
func (s *TemplateService) GetByID(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	return s.templates.GetByID(ctx, id)
}

// List retrieves all templates, newest first.
func (s *TemplateService) List(ctx context.Context) ([]model.Template, error) {
	return s.templates.List(ctx)
}

// Update shallow-merges the body into a loaded template and saves it.
func (s *TemplateService) Update(ctx context.Context, t *model.Template, in *model.TemplateUpdate) error {
	if in.Title != nil {
		t.Title = *in.Title
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
	if in.IsDefault != nil {
		t.IsDefault = *in.IsDefault
	}
	if in.PaperStructs != nil {
		t.PaperStructs = *in.PaperStructs
	}
	return s.templates.Update(ctx, t)
}

// Delete removes a template.
func (s *TemplateService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.templates.Delete(ctx, id)
}
