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
	templateResource = "templates"
	templateLabel    = "Template"
)

// TemplateHandler handles reusable paper template endpoints.
type TemplateHandler struct {
	templateService *service.TemplateService
	policy          *policy.Policy
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService *service.TemplateService, p *policy.Policy) *TemplateHandler {
	return &TemplateHandler{templateService: templateService, policy: p}
}

// List godoc
// GET /api/templates
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templateService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if templates == nil {
		templates = []model.Template{}
	}
	c.JSON(http.StatusOK, templates)
}

// Create godoc
// POST /api/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var in model.TemplateInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	tmpl, err := h.templateService.Create(c.Request.Context(), &in, callerID(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSubject) {
			response.Fail(c, http.StatusBadRequest, response.InvalidID("Subject"))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

// Get godoc
// GET /api/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	tmpl, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, tmpl.UserID, templateResource) {
		return
	}
	tmpl.IsCurrentUserOwner = ownershipFlag(c, tmpl.UserID)
	c.JSON(http.StatusOK, tmpl)
}

// Update godoc
// PUT /api/templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	tmpl, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, tmpl.UserID, templateResource) {
		return
	}

	var in model.TemplateUpdate
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	if err := h.templateService.Update(c.Request.Context(), tmpl, &in); err != nil {
		if errors.Is(err, service.ErrInvalidSubject) {
			response.Fail(c, http.StatusBadRequest, response.InvalidID("Subject"))
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(templateLabel))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

// Delete godoc
// DELETE /api/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	tmpl, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, tmpl.UserID, templateResource) {
		return
	}

	if err := h.templateService.Delete(c.Request.Context(), tmpl.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(templateLabel))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (h *TemplateHandler) load(c *gin.Context) (*model.Template, bool) {
	id, ok := parseID(c, templateLabel)
	if !ok {
		return nil, false
	}

	tmpl, err := h.templateService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(templateLabel))
			return nil, false
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return tmpl, true
}
