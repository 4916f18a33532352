package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qforge/qbank-backend/internal/model"
)

// QuestionStore is the persistence contract for the tagged-variant
// question entity.
type QuestionStore interface {
	Create(ctx context.Context, q *model.Question) error
	GetByID(ctx context.Context, kind model.QuestionKind, id uuid.UUID) (*model.Question, error)
	List(ctx context.Context, kind model.QuestionKind) ([]model.Question, error)
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, kind model.QuestionKind, id uuid.UUID) error
}

// QuestionService handles question business logic for all six kinds.
type QuestionService struct {
	questions QuestionStore
	log       zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questions QuestionStore, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questions: questions,
		log:       log.With().Str("component", "question_service").Logger(),
	}
}

// Create validates the kind-specific requirements, assigns the sampling
// coordinate and difficulty default, and persists the question.
func (s *QuestionService) Create(ctx context.Context, kind model.QuestionKind, in *model.QuestionInput, userID *uuid.UUID) (*model.Question, error) {
	q := &model.Question{
		Kind:        kind,
		Stem:        in.Stem,
		Difficulty:  model.DefaultDifficulty,
		Description: in.Description,
		ChoiceItems: in.ChoiceItems,
		Answer:      in.Answer,
		BlankNumber: in.BlankNumber,
		SubQuests:   in.SubQuests,
		Tags:        in.Tags,
		Analysis:    in.Analysis,
		UserID:      userID,
	}
	if in.Difficulty != nil {
		q.Difficulty = *in.Difficulty
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	if in.Subject != "" {
		subjectID, err := uuid.Parse(in.Subject)
		if err != nil {
			return nil, ErrInvalidSubject
		}
		q.SubjectID = &subjectID
	}

	if err := validateQuestionKind(kind, q); err != nil {
		return nil, err
	}

	// The sampling coordinate is fixed here, once, for the lifetime of
	// the question.
	q.Random = [2]float64{sampleCoord(), sampleCoord()}

	if err := s.questions.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// GetByID retrieves a question of the given kind.
func (s *QuestionService) GetByID(ctx context.Context, kind model.QuestionKind, id uuid.UUID) (*model.Question, error) {
	return s.questions.GetByID(ctx, kind, id)
}

// List retrieves all questions of a kind, newest first.
func (s *QuestionService) List(ctx context.Context, kind model.QuestionKind) ([]model.Question, error) {
	return s.questions.List(ctx, kind)
}

// Update shallow-merges the body into a loaded question and saves it. The
// sampling coordinate never changes.
func (s *QuestionService) Update(ctx context.Context, q *model.Question, in *model.QuestionUpdate) error {
	if in.Stem != nil {
		q.Stem = *in.Stem
	}
	if in.Difficulty != nil {
		q.Difficulty = *in.Difficulty
	}
	if in.Description != nil {
		q.Description = *in.Description
	}
	if in.ChoiceItems != nil {
		q.ChoiceItems = in.ChoiceItems
	}
	if in.Answer != nil {
		q.Answer = in.Answer
	}
	if in.BlankNumber != nil {
		q.BlankNumber = in.BlankNumber
	}
	if in.SubQuests != nil {
		q.SubQuests = in.SubQuests
	}
	if in.Subject != nil {
		if *in.Subject == "" {
			q.SubjectID = nil
		} else {
			subjectID, err := uuid.Parse(*in.Subject)
			if err != nil {
				return ErrInvalidSubject
			}
			q.SubjectID = &subjectID
		}
	}
	if in.Tags != nil {
		q.Tags = *in.Tags
	}
	if in.Analysis != nil {
		q.Analysis = *in.Analysis
	}

	if err := validateQuestionKind(q.Kind, q); err != nil {
		return err
	}
	return s.questions.Update(ctx, q)
}

// Delete removes a question.
func (s *QuestionService) Delete(ctx context.Context, kind model.QuestionKind, id uuid.UUID) error {
	return s.questions.Delete(ctx, kind, id)
}

// validateQuestionKind enforces the per-kind required fields the store
// schema cannot express on a shared table.
func validateQuestionKind(kind model.QuestionKind, q *model.Question) error {
	label := kind.Label()
	switch kind {
	case model.KindSingleChoice, model.KindMultiChoice:
		if len(q.ChoiceItems) == 0 {
			return ValidationError("Please fill " + label + " choice items")
		}
		if len(q.Answer) == 0 {
			return ValidationError("Please fill " + label + " answer")
		}
	case model.KindBlank:
		if q.BlankNumber == nil {
			return ValidationError("Please fill " + label + " blank number")
		}
		if len(q.Answer) == 0 {
			return ValidationError("Please fill " + label + " answer")
		}
	case model.KindJudge, model.KindQuestAnswer:
		if len(q.Answer) == 0 {
			return ValidationError("Please fill " + label + " answer")
		}
	case model.KindMixing:
		if len(q.Tags) == 0 {
			return ValidationError("Please add one tags")
		}
	}
	return nil
}
