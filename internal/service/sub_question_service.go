package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qforge/qbank-backend/internal/model"
)

// SubQuestionStore is the persistence contract for sub-questions.
type SubQuestionStore interface {
	Create(ctx context.Context, sq *model.SubQuestion) error
	GetByID(ctx context.Context, kind model.SubQuestionKind, id uuid.UUID) (*model.SubQuestion, error)
	List(ctx context.Context, kind model.SubQuestionKind) ([]model.SubQuestion, error)
	Update(ctx context.Context, sq *model.SubQuestion) error
	Delete(ctx context.Context, kind model.SubQuestionKind, id uuid.UUID) error
}

// SubQuestionService handles the mix* sub-question kinds.
type SubQuestionService struct {
	subQuestions SubQuestionStore
	log          zerolog.Logger
}

// NewSubQuestionService creates a new SubQuestionService.
func NewSubQuestionService(subQuestions SubQuestionStore, log zerolog.Logger) *SubQuestionService {
	return &SubQuestionService{
		subQuestions: subQuestions,
		log:          log.With().Str("component", "sub_question_service").Logger(),
	}
}

// Create validates and persists a sub-question.
func (s *SubQuestionService) Create(ctx context.Context, kind model.SubQuestionKind, in *model.SubQuestionInput, userID *uuid.UUID) (*model.SubQuestion, error) {
	sq := &model.SubQuestion{
		Kind:        kind,
		Stem:        in.Stem,
		ChoiceItems: in.ChoiceItems,
		Answer:      in.Answer,
		BlankNumber: in.BlankNumber,
		Analysis:    in.Analysis,
		UserID:      userID,
	}
	if err := validateSubQuestionKind(kind, sq); err != nil {
		return nil, err
	}
	if err := s.subQuestions.Create(ctx, sq); err != nil {
		return nil, err
	}
	return sq, nil
}

// GetByID retrieves a sub-question of the given kind.
func (s *SubQuestionService) GetByID(ctx context.Context, kind model.SubQuestionKind, id uuid.UUID) (*model.SubQuestion, error) {
	return s.subQuestions.GetByID(ctx, kind, id)
}

// List retrieves all sub-questions of a kind, newest first.
func (s *SubQuestionService) List(ctx context.Context, kind model.SubQuestionKind) ([]model.SubQuestion, error) {
	return s.subQuestions.List(ctx, kind)
}

// Update shallow-merges the body into a loaded sub-question and saves it.
func (s *SubQuestionService) Update(ctx context.Context, sq *model.SubQuestion, in *model.SubQuestionUpdate) error {
	if in.Stem != nil {
		sq.Stem = *in.Stem
	}
	if in.ChoiceItems != nil {
		sq.ChoiceItems = in.ChoiceItems
	}
	if in.Answer != nil {
		sq.Answer = in.Answer
	}
	if in.BlankNumber != nil {
		sq.BlankNumber = in.BlankNumber
	}
	if in.Analysis != nil {
		sq.Analysis = *in.Analysis
	}
	if err := validateSubQuestionKind(sq.Kind, sq); err != nil {
		return err
	}
	return s.subQuestions.Update(ctx, sq)
}

// Delete removes a sub-question.
func (s *SubQuestionService) Delete(ctx context.Context, kind model.SubQuestionKind, id uuid.UUID) error {
	return s.subQuestions.Delete(ctx, kind, id)
}

func validateSubQuestionKind(kind model.SubQuestionKind, sq *model.SubQuestion) error {
	label := kind.Label()
	switch kind {
	case model.KindMixSingleChoice, model.KindMixMultiChoice:
		if len(sq.ChoiceItems) == 0 {
			return ValidationError("Please fill " + label + " choice items")
		}
		if len(sq.Answer) == 0 {
			return ValidationError("Please fill " + label + " answer")
		}
	case model.KindMixBlank:
		if sq.BlankNumber == nil {
			return ValidationError("Please fill " + label + " blank number")
		}
		if len(sq.Answer) == 0 {
			return ValidationError("Please fill " + label + " answer")
		}
	case model.KindMixJudge, model.KindMixQuestAnswer:
		if len(sq.Answer) == 0 {
			return ValidationError("Please fill " + label + " answer")
		}
	}
	return nil
}
