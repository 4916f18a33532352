package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qforge/qbank-backend/internal/model"
)

// QuestTemplateStore is the persistence contract for quest templates.
type QuestTemplateStore interface {
	Create(ctx context.Context, q *model.QuestTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.QuestTemplate, error)
	List(ctx context.Context) ([]model.QuestTemplate, error)
	Update(ctx context.Context, q *model.QuestTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuestTemplateService handles quest-template business logic.
type QuestTemplateService struct {
	questTemplates QuestTemplateStore
	log            zerolog.Logger
}

// NewQuestTemplateService creates a new QuestTemplateService.
func NewQuestTemplateService(questTemplates QuestTemplateStore, log zerolog.Logger) *QuestTemplateService {
	return &QuestTemplateService{
		questTemplates: questTemplates,
		log:            log.With().Str("component", "quest_template_service").Logger(),
	}
}

// Create persists a new quest template.
func (s *QuestTemplateService) Create(ctx context.Context, in *model.QuestTemplateInput, userID *uuid.UUID) (*model.QuestTemplate, error) {
	q := &model.QuestTemplate{
		IsDefault:      in.IsDefault,
		Subject:        in.Subject,
		Type:           in.Type,
		Title:          in.Title,
		Description:    in.Description,
		QuestionNumber: in.QuestionNumber,
		UserID:         userID,
	}
	if err := s.questTemplates.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// GetByID retrieves a quest template.
func (s *QuestTemplateService) GetByID(ctx context.Context, id uuid.UUID) (*model.QuestTemplate, error) {
	return s.questTemplates.GetByID(ctx, id)
}

// List retrieves all quest templates, newest first.
func (s *QuestTemplateService) List(ctx context.Context) ([]model.QuestTemplate, error) {
	return s.questTemplates.List(ctx)
}

// Update shallow-merges the body into a loaded quest template and saves it.
func (s *QuestTemplateService) Update(ctx context.Context, q *model.QuestTemplate, in *model.QuestTemplateUpdate) error {
	if in.IsDefault != nil {
		q.IsDefault = *in.IsDefault
	}
	if in.Subject != nil {
		q.Subject = *in.Subject
	}
	if in.Type != nil {
		q.Type = *in.Type
	}
	if in.Title != nil {
		q.Title = *in.Title
	}
	if in.Description != nil {
		q.Description = *in.Description
	}
	if in.QuestionNumber != nil {
		q.QuestionNumber = *in.QuestionNumber
	}
	return s.questTemplates.Update(ctx, q)
}

// Delete removes a quest template.
func (s *QuestTemplateService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.questTemplates.Delete(ctx, id)
}
