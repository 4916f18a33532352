package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qforge/qbank-backend/internal/middleware"
	"github.com/qforge/qbank-backend/internal/model"
	"github.com/qforge/qbank-backend/internal/policy"
	"github.com/qforge/qbank-backend/internal/repository"
	"github.com/qforge/qbank-backend/internal/service"
)

type stubTagStore struct {
	tags       map[uuid.UUID]*model.Tag
	lastFilter model.TagFilter
}

func newStubTagStore() *stubTagStore {
	return &stubTagStore{tags: make(map[uuid.UUID]*model.Tag)}
}

func (s *stubTagStore) Create(_ context.Context, t *model.Tag) error {
	t.ID = uuid.New()
	s.tags[t.ID] = t
	return nil
}

func (s *stubTagStore) GetByID(_ context.Context, id uuid.UUID) (*model.Tag, error) {
	t, ok := s.tags[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *stubTagStore) List(_ context.Context, f model.TagFilter) ([]model.Tag, error) {
	s.lastFilter = f
	out := make([]model.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, *t)
	}
	return out, nil
}

func (s *stubTagStore) Update(_ context.Context, t *model.Tag) error {
	if _, ok := s.tags[t.ID]; !ok {
		return repository.ErrNotFound
	}
	s.tags[t.ID] = t
	return nil
}

func (s *stubTagStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.tags[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.tags, id)
	return nil
}

func tagRouter(store *stubTagStore, caller *policy.Caller) *gin.Engine {
	p := policy.New()
	svc := service.NewTagService(store, zerolog.Nop())
	h := NewTagHandler(svc, p)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if caller != nil {
			c.Set(middleware.ContextKeyCaller, caller)
		}
		c.Next()
	})

	collection := r.Group("/api/tags")
	collection.Use(middleware.RequireAccess(p, "tags"))
	{
		collection.GET("", h.List)
		collection.POST("", h.Create)
	}
	r.GET("/api/tags/:id", h.Get)
	r.PUT("/api/tags/:id", h.Update)
	r.DELETE("/api/tags/:id", h.Delete)
	return r
}

func TestCreateTagAsUser(t *testing.T) {
	store := newStubTagStore()
	r := tagRouter(store, userCaller())

	w := perform(r, http.MethodPost, "/api/tags", map[string]any{"name": "algebra"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}

	var tag model.Tag
	if err := json.Unmarshal(w.Body.Bytes(), &tag); err != nil {
		t.Fatalf("unmarshal tag: %v", err)
	}
	if tag.Name != "algebra" {
		t.Fatalf("name = %q, want %q", tag.Name, "algebra")
	}
	if tag.SubjectID != nil {
		t.Fatalf("tag without subject should be shared, got subject %s", tag.SubjectID)
	}
}

func TestCreateTagAsGuest(t *testing.T) {
	r := tagRouter(newStubTagStore(), nil)

	w := perform(r, http.MethodPost, "/api/tags", map[string]any{"name": "algebra"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if got := errorMessage(t, w); got != "User is not authorized" {
		t.Fatalf("message = %q", got)
	}
}

func TestCreateTagInvalidSubject(t *testing.T) {
	r := tagRouter(newStubTagStore(), userCaller())

	w := perform(r, http.MethodPost, "/api/tags", map[string]any{"name": "algebra", "subject": "not-a-uuid"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := errorMessage(t, w); got != "Subject is invalid" {
		t.Fatalf("message = %q", got)
	}
}

func TestListTagsFilter(t *testing.T) {
	store := newStubTagStore()
	r := tagRouter(store, nil)

	subjectID := uuid.New()
	w := perform(r, http.MethodGet, "/api/tags?subjectId="+subjectID.String()+"&shared=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if store.lastFilter.SubjectID == nil || *store.lastFilter.SubjectID != subjectID {
		t.Fatalf("filter subject = %v, want %s", store.lastFilter.SubjectID, subjectID)
	}
	if !store.lastFilter.Shared {
		t.Fatal("filter shared = false, want true")
	}
}

func TestListTagsBadSubjectID(t *testing.T) {
	r := tagRouter(newStubTagStore(), nil)

	w := perform(r, http.MethodGet, "/api/tags?subjectId=garbage", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := errorMessage(t, w); got != "Subject is invalid" {
		t.Fatalf("message = %q", got)
	}
}

func TestGetTagNotFound(t *testing.T) {
	r := tagRouter(newStubTagStore(), nil)

	w := perform(r, http.MethodGet, "/api/tags/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	want := "No Tag with that identifier has been found"
	if got := errorMessage(t, w); got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestGetTagMalformedID(t *testing.T) {
	r := tagRouter(newStubTagStore(), nil)

	w := perform(r, http.MethodGet, "/api/tags/not-a-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := errorMessage(t, w); got != "Tag is invalid" {
		t.Fatalf("message = %q", got)
	}
}
