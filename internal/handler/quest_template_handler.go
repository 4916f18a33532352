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

const (
	questTemplateResource = "questTemplates"
	questTemplateLabel    = "QuestTemplate"
)

// QuestTemplateHandler handles question authoring template endpoints.
// Writes are admin-only through the policy table; save failures report 422
// rather than the 400 the other resources use.
type QuestTemplateHandler struct {
	questTemplateService *service.QuestTemplateService
	policy               *policy.Policy
}

// NewQuestTemplateHandler creates a new QuestTemplateHandler.
func NewQuestTemplateHandler(questTemplateService *service.QuestTemplateService, p *policy.Policy) *QuestTemplateHandler {
	return &QuestTemplateHandler{questTemplateService: questTemplateService, policy: p}
}

// List godoc
// GET /api/questTemplates
func (h *QuestTemplateHandler) List(c *gin.Context) {
	questTemplates, err := h.questTemplateService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if questTemplates == nil {
		questTemplates = []model.QuestTemplate{}
	}
	c.JSON(http.StatusOK, questTemplates)
}

// Create godoc
// POST /api/questTemplates
func (h *QuestTemplateHandler) Create(c *gin.Context) {
	var in model.QuestTemplateInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusUnprocessableEntity, fields)
		return
	}

	qt, err := h.questTemplateService.Create(c.Request.Context(), &in, callerID(c))
	if err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, qt)
}

// Get godoc
// GET /api/questTemplates/:id
func (h *QuestTemplateHandler) Get(c *gin.Context) {
	qt, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, qt.UserID, questTemplateResource) {
		return
	}
	qt.IsCurrentUserOwner = ownershipFlag(c, qt.UserID)
	c.JSON(http.StatusOK, qt)
}

// Update godoc
// PUT /api/questTemplates/:id
func (h *QuestTemplateHandler) Update(c *gin.Context) {
	qt, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, qt.UserID, questTemplateResource) {
		return
	}

	var in model.QuestTemplateUpdate
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusUnprocessableEntity, fields)
		return
	}

	if err := h.questTemplateService.Update(c.Request.Context(), qt, &in); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(questTemplateLabel))
			return
		}
		response.Fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, qt)
}

// Delete godoc
// DELETE /api/questTemplates/:id
func (h *QuestTemplateHandler) Delete(c *gin.Context) {
	qt, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, qt.UserID, questTemplateResource) {
		return
	}

	if err := h.questTemplateService.Delete(c.Request.Context(), qt.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(questTemplateLabel))
			return
		}
		response.Fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, qt)
}

func (h *QuestTemplateHandler) load(c *gin.Context) (*model.QuestTemplate, bool) {
	id, ok := parseID(c, questTemplateLabel)
	if !ok {
		return nil, false
	}

	qt, err := h.questTemplateService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(questTemplateLabel))
			return nil, false
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return qt, true
}
