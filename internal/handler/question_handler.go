package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qforge/qbank-backend/internal/model"
	"github.com/qforge/qbank-backend/internal/policy"
	"github.com/qforge/qbank-backend/internal/repository"
	"github.com/qforge/qbank-backend/internal/response"
	"github.com/qforge/qbank-backend/internal/service"
	"github.com/qforge/qbank-backend/internal/validator"
)

// QuestionHandler serves one question kind's resource. The same handler
// type backs all six kinds; the kind fixes the route's entity label and
// which rows the store touches.
type QuestionHandler struct {
	questionService *service.QuestionService
	kind            model.QuestionKind
	policy          *policy.Policy
}

// NewQuestionHandler creates a handler for one question kind.
func NewQuestionHandler(questionService *service.QuestionService, kind model.QuestionKind, p *policy.Policy) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, kind: kind, policy: p}
}

// List godoc
// GET /api/{kind}
func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.questionService.List(c.Request.Context(), h.kind)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if questions == nil {
		questions = []model.Question{}
	}
	c.JSON(http.StatusOK, questions)
}

// Create godoc
// POST /api/{kind}
func (h *QuestionHandler) Create(c *gin.Context) {
	var in model.QuestionInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	q, err := h.questionService.Create(c.Request.Context(), h.kind, &in, callerID(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSubject) {
			response.Fail(c, http.StatusBadRequest, response.InvalidID("Subject"))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, q)
}

// Get godoc
// GET /api/{kind}/:id
func (h *QuestionHandler) Get(c *gin.Context) {
	q, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, q.UserID, h.kind.Resource()) {
		return
	}
	q.IsCurrentUserOwner = ownershipFlag(c, q.UserID)
	c.JSON(http.StatusOK, q)
}

// Update godoc
// PUT /api/{kind}/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	q, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, q.UserID, h.kind.Resource()) {
		return
	}

	var in model.QuestionUpdate
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	if err := h.questionService.Update(c.Request.Context(), q, &in); err != nil {
		if errors.Is(err, service.ErrInvalidSubject) {
			response.Fail(c, http.StatusBadRequest, response.InvalidID("Subject"))
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(h.kind.Label()))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, q)
}

// Delete godoc
// DELETE /api/{kind}/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	q, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, q.UserID, h.kind.Resource()) {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), h.kind, q.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(h.kind.Label()))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *QuestionHandler) load(c *gin.Context) (*model.Question, bool) {
	id, ok := parseID(c, h.kind.Label())
	if !ok {
		return nil, false
	}

	q, err := h.questionService.GetByID(c.Request.Context(), h.kind, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(h.kind.Label()))
			return nil, false
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return q, true
}
