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

// SubQuestionHandler serves one mixing sub-question kind's resource.
type SubQuestionHandler struct {
	subQuestionService *service.SubQuestionService
	kind               model.SubQuestionKind
	policy             *policy.Policy
}

// NewSubQuestionHandler creates a handler for one sub-question kind.
func NewSubQuestionHandler(subQuestionService *service.SubQuestionService, kind model.SubQuestionKind, p *policy.Policy) *SubQuestionHandler {
	return &SubQuestionHandler{subQuestionService: subQuestionService, kind: kind, policy: p}
}

// List godoc
// GET /api/{kind}
func (h *SubQuestionHandler) List(c *gin.Context) {
	subQuestions, err := h.subQuestionService.List(c.Request.Context(), h.kind)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if subQuestions == nil {
		subQuestions = []model.SubQuestion{}
	}
	c.JSON(http.StatusOK, subQuestions)
}

// Create godoc
// POST /api/{kind}
func (h *SubQuestionHandler) Create(c *gin.Context) {
	var in model.SubQuestionInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	sq, err := h.subQuestionService.Create(c.Request.Context(), h.kind, &in, callerID(c))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, sq)
}

// Get godoc
// GET /api/{kind}/:id
func (h *SubQuestionHandler) Get(c *gin.Context) {
	sq, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, sq.UserID, h.kind.Resource()) {
		return
	}
	sq.IsCurrentUserOwner = ownershipFlag(c, sq.UserID)
	c.JSON(http.StatusOK, sq)
}

// Update godoc
// PUT /api/{kind}/:id
func (h *SubQuestionHandler) Update(c *gin.Context) {
	sq, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, sq.UserID, h.kind.Resource()) {
		return
	}

	var in model.SubQuestionUpdate
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	if err := h.subQuestionService.Update(c.Request.Context(), sq, &in); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(h.kind.Label()))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, sq)
}

// Delete godoc
// DELETE /api/{kind}/:id
func (h *SubQuestionHandler) Delete(c *gin.Context) {
	sq, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, sq.UserID, h.kind.Resource()) {
		return
	}

	if err := h.subQuestionService.Delete(c.Request.Context(), h.kind, sq.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(h.kind.Label()))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, sq)
}

func (h *SubQuestionHandler) load(c *gin.Context) (*model.SubQuestion, bool) {
	id, ok := parseID(c, h.kind.Label())
	if !ok {
		return nil, false
	}

	sq, err := h.subQuestionService.GetByID(c.Request.Context(), h.kind, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(h.kind.Label()))
			return nil, false
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return sq, true
}
