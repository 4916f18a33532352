package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/qforge/qbank-backend/internal/model"
)

// ErrInvalidSubject is returned when the assembly request carries a
// malformed subject identifier. No store query is issued in that case.
var ErrInvalidSubject = errors.New("invalid subject identifier")

// ErrAssemblyFailed wraps a selection-query failure during assembly. It
// marks a store-side fault, not a problem with the request.
var ErrAssemblyFailed = errors.New("paper assembly failed")

// QuestionSelector issues one bounded randomized selection query against
// the question store.
type QuestionSelector interface {
	SelectNear(ctx context.Context, sel model.SelectionQuery) ([]model.Question, error)
}

// PaperStore persists assembled papers.
type PaperStore interface {
	Create(ctx context.Context, p *model.Paper) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Paper, error)
	List(ctx context.Context) ([]model.Paper, error)
	Update(ctx context.Context, p *model.Paper) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaperService assembles papers from templates and manages their lifecycle.
type PaperService struct {
	papers    PaperStore
	questions QuestionSelector
	log       zerolog.Logger
}

// NewPaperService creates a new PaperService.
func NewPaperService(papers PaperStore, questions QuestionSelector, log zerolog.Logger) *PaperService {
	return &PaperService{
		papers:    papers,
		questions: questions,
		log:       log.With().Str("component", "paper_service").Logger(),
	}
}

// Assemble builds a concrete paper from a template body and persists it.
//
// Each paper struct is resolved independently: a fresh two-decimal sampling
// anchor, a fixed ±1 difficulty window around the requested difficulty, and
// a tag-superset filter when tags are given. The per-struct queries run
// concurrently; sections are reassembled in the original struct order. A
// struct matching fewer questions than requested yields a short section,
// never an error. Any query failure aborts the whole assembly and nothing
// is persisted — the paper is written as a single document at the end.
func (s *PaperService) Assemble(ctx context.Context, in *model.PaperInput, userID *uuid.UUID) (*model.Paper, error) {
	subjectID, err := uuid.Parse(in.Subject)
	if err != nil {
		return nil, ErrInvalidSubject
	}

	sections := make([]model.Section, len(in.PaperStructs))

	g, gctx := errgroup.WithContext(ctx)
	for i, ps := range in.PaperStructs {
		g.Go(func() error {
			sel := model.SelectionQuery{
				Kind:          ps.QuestType,
				SubjectID:     subjectID,
				MinDifficulty: ps.Difficulty - 1,
				MaxDifficulty: ps.Difficulty + 1,
				Tags:          ps.Tags,
				AnchorX:       sampleCoord(),
				AnchorY:       sampleCoord(),
				Limit:         ps.Number,
			}

			questions, err := s.questions.SelectNear(gctx, sel)
			if err != nil {
				return err
			}
			if questions == nil {
				questions = []model.Question{}
			}

			sections[i] = model.Section{
				QuestType:  ps.QuestType,
				Number:     ps.Number,
				Difficulty: ps.Difficulty,
				Tags:       ps.Tags,
				Questions:  questions,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Error().Err(err).Str("subject_id", subjectID.String()).Msg("Paper assembly failed")
		return nil, fmt.Errorf("%w: %v", ErrAssemblyFailed, err)
	}

	paper := &model.Paper{
		Title:     in.Title,
		SubjectID: &subjectID,
		Sections:  sections,
		UserID:    userID,
	}
	if err := s.papers.Create(ctx, paper); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("paper_id", paper.ID.String()).
		Int("sections", len(paper.Sections)).
		Msg("Paper assembled")
	return paper, nil
}

// GetByID retrieves a paper.
func (s *PaperService) GetByID(ctx context.Context, id uuid.UUID) (*model.Paper, error) {
	return s.papers.GetByID(ctx, id)
}

// List retrieves all papers, newest first.
func (s *PaperService) List(ctx context.Context) ([]model.Paper, error) {
	return s.papers.List(ctx)
}

// Update merges the updatable fields into a loaded paper and saves it.
// The section snapshot is immutable after assembly.
func (s *PaperService) Update(ctx context.Context, p *model.Paper, in *model.PaperUpdate) error {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Subject != nil {
		subjectID, err := uuid.Parse(*in.Subject)
		if err != nil {
			return ErrInvalidSubject
		}
		p.SubjectID = &subjectID
	}
	return s.papers.Update(ctx, p)
}

// Delete removes a paper.
func (s *PaperService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.papers.Delete(ctx, id)
}

// sampleCoord draws one anchor coordinate: uniform in [0,1], rounded to two
// decimals to match the precision of the stored sampling coordinates.
func sampleCoord() float64 {
	return math.Round(rand.Float64()*100) / 100
}
