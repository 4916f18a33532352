package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qforge/qbank-backend/internal/model"
	"github.com/qforge/qbank-backend/internal/policy"
	"github.com/qforge/qbank-backend/internal/repository"
	"github.com/qforge/qbank-backend/internal/response"
	"github.com/qforge/qbank-backend/internal/service"
	"github.com/qforge/qbank-backend/internal/validator"
)

const (
	subjectResource = "subjects"
	subjectLabel    = "Subject"
)

// SubjectHandler handles subject endpoints. Unlike the other resources the
// collection read is paginated.
type SubjectHandler struct {
	subjectService *service.SubjectService
	policy         *policy.Policy
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjectService *service.SubjectService, p *policy.Policy) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService, policy: p}
}

// List godoc
// GET /api/subjects?page=1&limit=10
func (h *SubjectHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.subjectService.List(c.Request.Context(), page, limit)
	if err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create godoc
// POST /api/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var in model.SubjectInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	subject, err := h.subjectService.Create(c.Request.Context(), &in, callerID(c))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, subject)
}

// Get godoc
// GET /api/subjects/:id
func (h *SubjectHandler) Get(c *gin.Context) {
	subject, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, subject.UserID, subjectResource) {
		return
	}
	subject.IsCurrentUserOwner = ownershipFlag(c, subject.UserID)
	c.JSON(http.StatusOK, subject)
}

// Update godoc
// PUT /api/subjects/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	subject, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, subject.UserID, subjectResource) {
		return
	}

	var in model.SubjectUpdate
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	if err := h.subjectService.Update(c.Request.Context(), subject, &in); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(subjectLabel))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, subject)
}

// Delete godoc
// DELETE /api/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	subject, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, subject.UserID, subjectResource) {
		return
	}

	if err := h.subjectService.Delete(c.Request.Context(), subject.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(subjectLabel))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, subject)
}

func (h *SubjectHandler) load(c *gin.Context) (*model.Subject, bool) {
	id, ok := parseID(c, subjectLabel)
	if !ok {
		return nil, false
	}

	subject, err := h.subjectService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(subjectLabel))
			return nil, false
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return subject, true
}
