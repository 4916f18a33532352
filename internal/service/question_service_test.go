package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qforge/qbank-backend/internal/model"
)

type fakeQuestionStore struct {
	questions map[uuid.UUID]*model.Question
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{questions: make(map[uuid.UUID]*model.Question)}
}

func (f *fakeQuestionStore) Create(_ context.Context, q *model.Question) error {
	q.ID = uuid.New()
	f.questions[q.ID] = q
	return nil
}

func (f *fakeQuestionStore) GetByID(_ context.Context, kind model.QuestionKind, id uuid.UUID) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok || q.Kind != kind {
		return nil, errors.New("not found")
	}
	return q, nil
}

func (f *fakeQuestionStore) List(_ context.Context, kind model.QuestionKind) ([]model.Question, error) {
	var out []model.Question
	for _, q := range f.questions {
		if q.Kind == kind {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) Update(_ context.Context, q *model.Question) error {
	f.questions[q.ID] = q
	return nil
}

func (f *fakeQuestionStore) Delete(_ context.Context, _ model.QuestionKind, id uuid.UUID) error {
	delete(f.questions, id)
	return nil
}

func singleChoiceInput() *model.QuestionInput {
	return &model.QuestionInput{
		Stem:        "2+2?",
		ChoiceItems: json.RawMessage(`[{"label":"3"},{"label":"4"}]`),
		Answer:      json.RawMessage(`"4"`),
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc := NewQuestionService(newFakeQuestionStore(), zerolog.Nop())

	q, err := svc.Create(context.Background(), model.KindSingleChoice, singleChoiceInput(), nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if q.Difficulty != model.DefaultDifficulty {
		t.Errorf("Difficulty = %v, want %v", q.Difficulty, model.DefaultDifficulty)
	}
	if q.Tags == nil {
		t.Error("Tags should default to an empty slice")
	}
	for _, v := range q.Random {
		if v < 0 || v > 1 {
			t.Errorf("sampling coordinate %v out of [0,1]", v)
		}
	}
}

func TestCreateRejectsInvalidSubject(t *testing.T) {
	svc := NewQuestionService(newFakeQuestionStore(), zerolog.Nop())

	in := singleChoiceInput()
	in.Subject = "garbage"
	_, err := svc.Create(context.Background(), model.KindSingleChoice, in, nil)
	if !errors.Is(err, ErrInvalidSubject) {
		t.Fatalf("err = %v, want ErrInvalidSubject", err)
	}
}

func TestCreateKindValidation(t *testing.T) {
	svc := NewQuestionService(newFakeQuestionStore(), zerolog.Nop())

	tests := []struct {
		name string
		kind model.QuestionKind
		in   *model.QuestionInput
	}{
		{"single choice without choices", model.KindSingleChoice, &model.QuestionInput{Stem: "s", Answer: json.RawMessage(`"a"`)}},
		{"multi choice without answer", model.KindMultiChoice, &model.QuestionInput{Stem: "s", ChoiceItems: json.RawMessage(`[{}]`)}},
		{"blank without blank number", model.KindBlank, &model.QuestionInput{Stem: "s", Answer: json.RawMessage(`["x"]`)}},
		{"judge without answer", model.KindJudge, &model.QuestionInput{Stem: "s"}},
		{"quest answer without answer", model.KindQuestAnswer, &model.QuestionInput{Stem: "s"}},
		{"mixing without tags", model.KindMixing, &model.QuestionInput{Stem: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.kind, tt.in, nil)
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestMixingValidationMessage(t *testing.T) {
	svc := NewQuestionService(newFakeQuestionStore(), zerolog.Nop())

	_, err := svc.Create(context.Background(), model.KindMixing, &model.QuestionInput{Stem: "s"}, nil)
	if err == nil || err.Error() != "Please add one tags" {
		t.Fatalf("err = %v, want %q", err, "Please add one tags")
	}
}

func TestUpdateNeverTouchesSamplingCoordinate(t *testing.T) {
	store := newFakeQuestionStore()
	svc := NewQuestionService(store, zerolog.Nop())

	q, err := svc.Create(context.Background(), model.KindJudge, &model.QuestionInput{
		Stem: "True or false", Answer: json.RawMessage(`true`),
	}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	before := q.Random

	newStem := "Updated"
	if err := svc.Update(context.Background(), q, &model.QuestionUpdate{Stem: &newStem}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if q.Random != before {
		t.Errorf("Random changed on update: %v -> %v", before, q.Random)
	}
	if q.Stem != "Updated" {
		t.Errorf("Stem = %q, want %q", q.Stem, "Updated")
	}
}

func TestUpdateClearsSubjectWithEmptyString(t *testing.T) {
	store := newFakeQuestionStore()
	svc := NewQuestionService(store, zerolog.Nop())

	in := singleChoiceInput()
	in.Subject = uuid.New().String()
	q, err := svc.Create(context.Background(), model.KindSingleChoice, in, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	empty := ""
	if err := svc.Update(context.Background(), q, &model.QuestionUpdate{Subject: &empty}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if q.SubjectID != nil {
		t.Error("SubjectID should be cleared by an empty subject")
	}
}

func TestUpdateRevalidatesKind(t *testing.T) {
	store := newFakeQuestionStore()
	svc := NewQuestionService(store, zerolog.Nop())

	q, err := svc.Create(context.Background(), model.KindMixing, &model.QuestionInput{
		Stem: "Composite", Tags: []string{"mixed"},
	}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Dropping every tag would leave a mixing question unselectable.
	none := []string{}
	err = svc.Update(context.Background(), q, &model.QuestionUpdate{Tags: &none})
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}
