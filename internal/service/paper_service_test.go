package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qforge/qbank-backend/internal/model"
)

type fakeSelector struct {
	mu      sync.Mutex
	queries []model.SelectionQuery
	results map[model.QuestionKind][]model.Question
	err     error
}

func (f *fakeSelector) SelectNear(_ context.Context, sel model.SelectionQuery) ([]model.Question, error) {
	f.mu.Lock()
	f.queries = append(f.queries, sel)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	picked := f.results[sel.Kind]
	if len(picked) > sel.Limit {
		picked = picked[:sel.Limit]
	}
	return picked, nil
}

type fakePaperStore struct {
	created []*model.Paper
	papers  map[uuid.UUID]*model.Paper
}

func newFakePaperStore() *fakePaperStore {
	return &fakePaperStore{papers: make(map[uuid.UUID]*model.Paper)}
}

func (f *fakePaperStore) Create(_ context.Context, p *model.Paper) error {
	p.ID = uuid.New()
	f.created = append(f.created, p)
	f.papers[p.ID] = p
	return nil
}

func (f *fakePaperStore) GetByID(_ context.Context, id uuid.UUID) (*model.Paper, error) {
	p, ok := f.papers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (f *fakePaperStore) List(_ context.Context) ([]model.Paper, error) { return nil, nil }

func (f *fakePaperStore) Update(_ context.Context, p *model.Paper) error {
	f.papers[p.ID] = p
	return nil
}

func (f *fakePaperStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.papers, id)
	return nil
}

func questionsOfKind(kind model.QuestionKind, n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{ID: uuid.New(), Kind: kind, Stem: "q"}
	}
	return qs
}

func TestAssembleSectionOrderMatchesRequest(t *testing.T) {
	selector := &fakeSelector{results: map[model.QuestionKind][]model.Question{
		model.KindSingleChoice: questionsOfKind(model.KindSingleChoice, 10),
		model.KindBlank:        questionsOfKind(model.KindBlank, 10),
		model.KindJudge:        questionsOfKind(model.KindJudge, 10),
	}}
	store := newFakePaperStore()
	svc := NewPaperService(store, selector, zerolog.Nop())

	in := &model.PaperInput{
		Title:   "Midterm",
		Subject: uuid.New().String(),
		PaperStructs: []model.PaperStruct{
			{QuestType: model.KindJudge, Number: 2, Difficulty: 3},
			{QuestType: model.KindSingleChoice, Number: 5, Difficulty: 3},
			{QuestType: model.KindBlank, Number: 1, Difficulty: 3},
		},
	}

	paper, err := svc.Assemble(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	// Sections come back in request order even though queries run
	// concurrently.
	wantKinds := []model.QuestionKind{model.KindJudge, model.KindSingleChoice, model.KindBlank}
	if len(paper.Sections) != len(wantKinds) {
		t.Fatalf("sections = %d, want %d", len(paper.Sections), len(wantKinds))
	}
	for i, kind := range wantKinds {
		if paper.Sections[i].QuestType != kind {
			t.Errorf("section[%d].QuestType = %s, want %s", i, paper.Sections[i].QuestType, kind)
		}
	}
	if got := len(paper.Sections[1].Questions); got != 5 {
		t.Errorf("section[1] questions = %d, want 5", got)
	}
}

func TestAssembleShortSectionIsNotAnError(t *testing.T) {
	// Only 2 questions exist but 5 are requested.
	selector := &fakeSelector{results: map[model.QuestionKind][]model.Question{
		model.KindSingleChoice: questionsOfKind(model.KindSingleChoice, 2),
	}}
	store := newFakePaperStore()
	svc := NewPaperService(store, selector, zerolog.Nop())

	in := &model.PaperInput{
		Title:   "Short",
		Subject: uuid.New().String(),
		PaperStructs: []model.PaperStruct{
			{QuestType: model.KindSingleChoice, Number: 5, Difficulty: 3},
		},
	}

	paper, err := svc.Assemble(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if got := len(paper.Sections[0].Questions); got != 2 {
		t.Errorf("questions = %d, want 2", got)
	}
	if paper.Sections[0].Number != 5 {
		t.Errorf("section keeps requested number = %d, want 5", paper.Sections[0].Number)
	}
}

func TestAssembleEmptyMatchYieldsEmptySection(t *testing.T) {
	selector := &fakeSelector{results: map[model.QuestionKind][]model.Question{}}
	store := newFakePaperStore()
	svc := NewPaperService(store, selector, zerolog.Nop())

	in := &model.PaperInput{
		Title:   "Empty",
		Subject: uuid.New().String(),
		PaperStructs: []model.PaperStruct{
			{QuestType: model.KindMixing, Number: 3, Difficulty: 2, Tags: []string{"rare"}},
		},
	}

	paper, err := svc.Assemble(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if paper.Sections[0].Questions == nil {
		t.Fatal("questions should be an empty slice, not nil")
	}
	if len(paper.Sections[0].Questions) != 0 {
		t.Errorf("questions = %d, want 0", len(paper.Sections[0].Questions))
	}
}

func TestAssembleQueryWindowAndTags(t *testing.T) {
	selector := &fakeSelector{results: map[model.QuestionKind][]model.Question{}}
	store := newFakePaperStore()
	svc := NewPaperService(store, selector, zerolog.Nop())

	subjectID := uuid.New()
	in := &model.PaperInput{
		Title:   "Window",
		Subject: subjectID.String(),
		PaperStructs: []model.PaperStruct{
			{QuestType: model.KindBlank, Number: 4, Difficulty: 3.5, Tags: []string{"geometry", "proofs"}},
		},
	}

	if _, err := svc.Assemble(context.Background(), in, nil); err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if len(selector.queries) != 1 {
		t.Fatalf("queries = %d, want 1", len(selector.queries))
	}
	sel := selector.queries[0]
	if sel.Kind != model.KindBlank {
		t.Errorf("Kind = %s, want blank", sel.Kind)
	}
	if sel.SubjectID != subjectID {
		t.Errorf("SubjectID = %s, want %s", sel.SubjectID, subjectID)
	}
	if sel.MinDifficulty != 2.5 || sel.MaxDifficulty != 4.5 {
		t.Errorf("difficulty window = [%v, %v], want [2.5, 4.5]", sel.MinDifficulty, sel.MaxDifficulty)
	}
	if len(sel.Tags) != 2 || sel.Tags[0] != "geometry" || sel.Tags[1] != "proofs" {
		t.Errorf("Tags = %v, want [geometry proofs]", sel.Tags)
	}
	if sel.Limit != 4 {
		t.Errorf("Limit = %d, want 4", sel.Limit)
	}
}

func TestAssemblePerStructAnchors(t *testing.T) {
	selector := &fakeSelector{results: map[model.QuestionKind][]model.Question{}}
	store := newFakePaperStore()
	svc := NewPaperService(store, selector, zerolog.Nop())

	structs := make([]model.PaperStruct, 20)
	for i := range structs {
		structs[i] = model.PaperStruct{QuestType: model.KindSingleChoice, Number: 1, Difficulty: 3}
	}
	in := &model.PaperInput{Title: "Anchors", Subject: uuid.New().String(), PaperStructs: structs}

	if _, err := svc.Assemble(context.Background(), in, nil); err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	distinct := make(map[[2]float64]bool)
	for _, sel := range selector.queries {
		for _, v := range []float64{sel.AnchorX, sel.AnchorY} {
			if v < 0 || v > 1 {
				t.Errorf("anchor %v out of [0,1]", v)
			}
			if math.Round(v*100)/100 != v {
				t.Errorf("anchor %v not rounded to two decimals", v)
			}
		}
		distinct[[2]float64{sel.AnchorX, sel.AnchorY}] = true
	}
	// 20 independent draws colliding into one anchor is astronomically
	// unlikely; this guards against a shared anchor across structs.
	if len(distinct) < 2 {
		t.Error("all structs shared one sampling anchor")
	}
}

func TestAssembleInvalidSubjectFailsFast(t *testing.T) {
	selector := &fakeSelector{}
	store := newFakePaperStore()
	svc := NewPaperService(store, selector, zerolog.Nop())

	in := &model.PaperInput{
		Title:   "Bad subject",
		Subject: "not-a-uuid",
		PaperStructs: []model.PaperStruct{
			{QuestType: model.KindSingleChoice, Number: 1, Difficulty: 3},
		},
	}

	_, err := svc.Assemble(context.Background(), in, nil)
	if !errors.Is(err, ErrInvalidSubject) {
		t.Fatalf("err = %v, want ErrInvalidSubject", err)
	}
	if len(selector.queries) != 0 {
		t.Error("no selection query should run for an invalid subject")
	}
	if len(store.created) != 0 {
		t.Error("nothing should be persisted")
	}
}

func TestAssembleSelectorFailureAbortsWholePaper(t *testing.T) {
	selector := &fakeSelector{err: errors.New("connection reset")}
	store := newFakePaperStore()
	svc := NewPaperService(store, selector, zerolog.Nop())

	in := &model.PaperInput{
		Title:   "Doomed",
		Subject: uuid.New().String(),
		PaperStructs: []model.PaperStruct{
			{QuestType: model.KindSingleChoice, Number: 2, Difficulty: 3},
			{QuestType: model.KindBlank, Number: 2, Difficulty: 3},
		},
	}

	_, err := svc.Assemble(context.Background(), in, nil)
	if err == nil {
		t.Fatal("Assemble() should fail when any selection query fails")
	}
	if !errors.Is(err, ErrAssemblyFailed) {
		t.Errorf("err = %v, want ErrAssemblyFailed", err)
	}
	if len(store.created) != 0 {
		t.Error("a failed assembly must not persist a partial paper")
	}
}

func TestUpdateKeepsSectionSnapshot(t *testing.T) {
	selector := &fakeSelector{results: map[model.QuestionKind][]model.Question{
		model.KindSingleChoice: questionsOfKind(model.KindSingleChoice, 3),
	}}
	store := newFakePaperStore()
	svc := NewPaperService(store, selector, zerolog.Nop())

	in := &model.PaperInput{
		Title:   "Before",
		Subject: uuid.New().String(),
		PaperStructs: []model.PaperStruct{
			{QuestType: model.KindSingleChoice, Number: 3, Difficulty: 3},
		},
	}
	paper, err := svc.Assemble(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	newTitle := "After"
	newSubject := uuid.New().String()
	if err := svc.Update(context.Background(), paper, &model.PaperUpdate{Title: &newTitle, Subject: &newSubject}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := svc.GetByID(context.Background(), paper.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "After" {
		t.Errorf("Title = %q, want %q", got.Title, "After")
	}
	if len(got.Sections[0].Questions) != 3 {
		t.Errorf("sections changed on update: questions = %d, want 3", len(got.Sections[0].Questions))
	}
}

func TestUpdateRejectsInvalidSubject(t *testing.T) {
	store := newFakePaperStore()
	svc := NewPaperService(store, &fakeSelector{}, zerolog.Nop())

	bad := "nope"
	err := svc.Update(context.Background(), &model.Paper{}, &model.PaperUpdate{Subject: &bad})
	if !errors.Is(err, ErrInvalidSubject) {
		t.Fatalf("err = %v, want ErrInvalidSubject", err)
	}
}

func TestSampleCoordBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := sampleCoord()
		if v < 0 || v > 1 {
			t.Fatalf("sampleCoord() = %v, out of [0,1]", v)
		}
		if math.Round(v*100)/100 != v {
			t.Fatalf("sampleCoord() = %v, not two-decimal", v)
		}
	}
}
