package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qforge/qbank-backend/internal/middleware"
	"github.com/qforge/qbank-backend/internal/model"
	"github.com/qforge/qbank-backend/internal/policy"
	"github.com/qforge/qbank-backend/internal/repository"
	"github.com/qforge/qbank-backend/internal/service"
	"github.com/qforge/qbank-backend/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

type stubSelector struct {
	questions []model.Question
	err       error
}

func (s *stubSelector) SelectNear(_ context.Context, sel model.SelectionQuery) ([]model.Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.questions) > sel.Limit {
		return s.questions[:sel.Limit], nil
	}
	return s.questions, nil
}

type stubPaperStore struct {
	papers map[uuid.UUID]*model.Paper
}

func newStubPaperStore() *stubPaperStore {
	return &stubPaperStore{papers: make(map[uuid.UUID]*model.Paper)}
}

func (s *stubPaperStore) Create(_ context.Context, p *model.Paper) error {
	p.ID = uuid.New()
	s.papers[p.ID] = p
	return nil
}

func (s *stubPaperStore) GetByID(_ context.Context, id uuid.UUID) (*model.Paper, error) {
	p, ok := s.papers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubPaperStore) List(_ context.Context) ([]model.Paper, error) {
	out := make([]model.Paper, 0, len(s.papers))
	for _, p := range s.papers {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubPaperStore) Update(_ context.Context, p *model.Paper) error {
	if _, ok := s.papers[p.ID]; !ok {
		return repository.ErrNotFound
	}
	s.papers[p.ID] = p
	return nil
}

func (s *stubPaperStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.papers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.papers, id)
	return nil
}

// paperRouter wires the paper routes the way the real router does, with
// the caller injected directly instead of resolved from a token.
func paperRouter(store *stubPaperStore, selector *stubSelector, caller *policy.Caller) *gin.Engine {
	p := policy.New()
	svc := service.NewPaperService(store, selector, zerolog.Nop())
	h := NewPaperHandler(svc, p)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if caller != nil {
			c.Set(middleware.ContextKeyCaller, caller)
		}
		c.Next()
	})

	collection := r.Group("/api/papers")
	collection.Use(middleware.RequireAccess(p, "papers"))
	{
		collection.GET("", h.List)
		collection.POST("", h.Create)
	}
	r.GET("/api/papers/:id", h.Get)
	r.PUT("/api/papers/:id", h.Update)
	r.DELETE("/api/papers/:id", h.Delete)
	return r
}

func perform(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body: %v (%s)", err, w.Body.String())
	}
	return body.Message
}

func userCaller() *policy.Caller {
	return &policy.Caller{ID: uuid.New(), Roles: []string{model.RoleUser}}
}

func assembleBody(subject string) map[string]any {
	return map[string]any{
		"title":   "Weekly quiz",
		"subject": subject,
		"paperStructs": []map[string]any{
			{"questType": "singleChoice", "number": 2, "difficulty": 3},
		},
	}
}

func TestCreatePaperAsUser(t *testing.T) {
	store := newStubPaperStore()
	selector := &stubSelector{questions: []model.Question{
		{ID: uuid.New(), Kind: model.KindSingleChoice},
		{ID: uuid.New(), Kind: model.KindSingleChoice},
		{ID: uuid.New(), Kind: model.KindSingleChoice},
	}}
	r := paperRouter(store, selector, userCaller())

	w := perform(r, http.MethodPost, "/api/papers", assembleBody(uuid.New().String()))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var paper struct {
		Sections []struct {
			Questions []model.Question `json:"questions"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &paper); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(paper.Sections) != 1 || len(paper.Sections[0].Questions) != 2 {
		t.Fatalf("unexpected sections: %s", w.Body.String())
	}
}

func TestCreatePaperAsGuestForbidden(t *testing.T) {
	r := paperRouter(newStubPaperStore(), &stubSelector{}, nil)

	w := perform(r, http.MethodPost, "/api/papers", assembleBody(uuid.New().String()))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if got := errorMessage(t, w); got != "User is not authorized" {
		t.Errorf("message = %q", got)
	}
}

func TestCreatePaperInvalidSubject(t *testing.T) {
	r := paperRouter(newStubPaperStore(), &stubSelector{}, userCaller())

	w := perform(r, http.MethodPost, "/api/papers", assembleBody("not-a-uuid"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := errorMessage(t, w); got != "Subject is invalid" {
		t.Errorf("message = %q, want %q", got, "Subject is invalid")
	}
}

func TestCreatePaperSelectorFailure(t *testing.T) {
	store := newStubPaperStore()
	selector := &stubSelector{err: errors.New("connection reset by peer")}
	r := paperRouter(store, selector, userCaller())

	w := perform(r, http.MethodPost, "/api/papers", assembleBody(uuid.New().String()))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (%s)", w.Code, w.Body.String())
	}
	if got := errorMessage(t, w); got != "Could not assemble paper" {
		t.Errorf("message = %q, want %q", got, "Could not assemble paper")
	}
	if len(store.papers) != 0 {
		t.Error("a failed assembly must not persist a paper")
	}
}

func TestGetPaperMalformedID(t *testing.T) {
	r := paperRouter(newStubPaperStore(), &stubSelector{}, nil)

	w := perform(r, http.MethodGet, "/api/papers/not-a-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := errorMessage(t, w); got != "Paper is invalid" {
		t.Errorf("message = %q, want %q", got, "Paper is invalid")
	}
}

func TestGetPaperNotFound(t *testing.T) {
	r := paperRouter(newStubPaperStore(), &stubSelector{}, nil)

	w := perform(r, http.MethodGet, "/api/papers/"+uuid.New().String(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	want := "No Paper with that identifier has been found"
	if got := errorMessage(t, w); got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestGetPaperOwnershipFlag(t *testing.T) {
	store := newStubPaperStore()
	caller := userCaller()
	ownerID := caller.ID
	paper := &model.Paper{Title: "Mine", UserID: &ownerID}
	if err := store.Create(context.Background(), paper); err != nil {
		t.Fatal(err)
	}

	r := paperRouter(store, &stubSelector{}, caller)
	w := perform(r, http.MethodGet, "/api/papers/"+paper.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var out struct {
		IsCurrentUserOwner *bool `json:"isCurrentUserOwner"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.IsCurrentUserOwner == nil || !*out.IsCurrentUserOwner {
		t.Error("isCurrentUserOwner should be true for the owner")
	}
}

func TestDeletePaperNonOwnerForbidden(t *testing.T) {
	store := newStubPaperStore()
	ownerID := uuid.New()
	paper := &model.Paper{Title: "Theirs", UserID: &ownerID}
	if err := store.Create(context.Background(), paper); err != nil {
		t.Fatal(err)
	}

	r := paperRouter(store, &stubSelector{}, userCaller())
	w := perform(r, http.MethodDelete, "/api/papers/"+paper.ID.String(), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestDeletePaperOwnerAllowed(t *testing.T) {
	store := newStubPaperStore()
	caller := userCaller()
	ownerID := caller.ID
	paper := &model.Paper{Title: "Mine", UserID: &ownerID}
	if err := store.Create(context.Background(), paper); err != nil {
		t.Fatal(err)
	}

	r := paperRouter(store, &stubSelector{}, caller)
	w := perform(r, http.MethodDelete, "/api/papers/"+paper.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(store.papers) != 0 {
		t.Error("paper should be deleted")
	}
}

func TestUpdatePaperRejectsSectionChanges(t *testing.T) {
	store := newStubPaperStore()
	caller := userCaller()
	ownerID := caller.ID
	paper := &model.Paper{
		Title:    "Mine",
		UserID:   &ownerID,
		Sections: []model.Section{{QuestType: model.KindSingleChoice, Number: 1}},
	}
	if err := store.Create(context.Background(), paper); err != nil {
		t.Fatal(err)
	}

	r := paperRouter(store, &stubSelector{}, caller)
	w := perform(r, http.MethodPut, "/api/papers/"+paper.ID.String(), map[string]any{
		"title":     "Renamed",
		"questions": []any{},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	stored := store.papers[paper.ID]
	if stored.Title != "Renamed" {
		t.Errorf("Title = %q, want Renamed", stored.Title)
	}
	if len(stored.Sections) != 1 {
		t.Error("sections must survive updates untouched")
	}
}
