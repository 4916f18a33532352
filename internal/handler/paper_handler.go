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
	paperResource = "papers"
	paperLabel    = "Paper"
)

// PaperHandler handles paper endpoints. Creating a paper runs the full
// assembly pipeline; the other verbs are plain CRUD over the stored
// snapshots.
type PaperHandler struct {
	paperService *service.PaperService
	policy       *policy.Policy
}

// NewPaperHandler creates a new PaperHandler.
func NewPaperHandler(paperService *service.PaperService, p *policy.Policy) *PaperHandler {
	return &PaperHandler{paperService: paperService, policy: p}
}

// List godoc
// GET /api/papers
func (h *PaperHandler) List(c *gin.Context) {
	papers, err := h.paperService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if papers == nil {
		papers = []model.Paper{}
	}
	c.JSON(http.StatusOK, papers)
}

// Create godoc
// POST /api/papers
// Assembles a new paper from the posted template body.
func (h *PaperHandler) Create(c *gin.Context) {
	var in model.PaperInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	paper, err := h.paperService.Assemble(c.Request.Context(), &in, callerID(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSubject) {
			response.Fail(c, http.StatusBadRequest, response.InvalidID("Subject"))
			return
		}
		// A selection-query failure is a store fault, not a bad request.
		if errors.Is(err, service.ErrAssemblyFailed) {
			response.Fail(c, http.StatusInternalServerError, "Could not assemble paper")
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, paper)
}

// Get godoc
// GET /api/papers/:id
func (h *PaperHandler) Get(c *gin.Context) {
	paper, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, paper.UserID, paperResource) {
		return
	}
	paper.IsCurrentUserOwner = ownershipFlag(c, paper.UserID)
	c.JSON(http.StatusOK, paper)
}

// Update godoc
// PUT /api/papers/:id
// Only the title and subject reference can change; the assembled section
// snapshot is immutable.
func (h *PaperHandler) Update(c *gin.Context) {
	paper, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, paper.UserID, paperResource) {
		return
	}

	var in model.PaperUpdate
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	if err := h.paperService.Update(c.Request.Context(), paper, &in); err != nil {
		if errors.Is(err, service.ErrInvalidSubject) {
			response.Fail(c, http.StatusBadRequest, response.InvalidID("Subject"))
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(paperLabel))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, paper)
}

// Delete godoc
// DELETE /api/papers/:id
func (h *PaperHandler) Delete(c *gin.Context) {
	paper, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, paper.UserID, paperResource) {
		return
	}

	if err := h.paperService.Delete(c.Request.Context(), paper.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(paperLabel))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, paper)
}

func (h *PaperHandler) load(c *gin.Context) (*model.Paper, bool) {
	id, ok := parseID(c, paperLabel)
	if !ok {
		return nil, false
	}

	paper, err := h.paperService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(paperLabel))
			return nil, false
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return paper, true
}
