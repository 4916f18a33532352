package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/qforge/qbank-backend/internal/model"
	"github.com/qforge/qbank-backend/internal/policy"
	"github.com/qforge/qbank-backend/internal/repository"
	"github.com/qforge/qbank-backend/internal/response"
	"github.com/qforge/qbank-backend/internal/service"
	"github.com/qforge/qbank-backend/internal/validator"
)

const (
	tagResource = "tags"
	tagLabel    = "Tag"
)

// TagHandler handles tag endpoints. Tags are scoped to a subject or shared
// across all subjects; the collection read filters on that scope.
type TagHandler struct {
	tagService *service.TagService
	policy     *policy.Policy
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService *service.TagService, p *policy.Policy) *TagHandler {
	return &TagHandler{tagService: tagService, policy: p}
}

// List godoc
// GET /api/tags?subjectId=...&shared=true
// With subjectId the result includes that subject's tags plus the shared
// ones; shared=true narrows to shared tags only.
func (h *TagHandler) List(c *gin.Context) {
	var filter model.TagFilter

	if raw := c.Query("subjectId"); raw != "" {
		subjectID, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.InvalidID("Subject"))
			return
		}
		filter.SubjectID = &subjectID
	}
	filter.Shared = c.Query("shared") == "true"

	tags, err := h.tagService.List(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	c.JSON(http.StatusOK, tags)
}

// Create godoc
// POST /api/tags
func (h *TagHandler) Create(c *gin.Context) {
	var in model.TagInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), &in, callerID(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSubject) {
			response.Fail(c, http.StatusBadRequest, response.InvalidID("Subject"))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, tag)
}

// Get godoc
// GET /api/tags/:id
func (h *TagHandler) Get(c *gin.Context) {
	tag, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, tag.UserID, tagResource) {
		return
	}
	tag.IsCurrentUserOwner = ownershipFlag(c, tag.UserID)
	c.JSON(http.StatusOK, tag)
}

// Update godoc
// PUT /api/tags/:id
func (h *TagHandler) Update(c *gin.Context) {
	tag, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, tag.UserID, tagResource) {
		return
	}

	var in model.TagUpdate
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	if err := h.tagService.Update(c.Request.Context(), tag, &in); err != nil {
		if errors.Is(err, service.ErrInvalidSubject) {
			response.Fail(c, http.StatusBadRequest, response.InvalidID("Subject"))
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(tagLabel))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, tag)
}

// Delete godoc
// DELETE /api/tags/:id
func (h *TagHandler) Delete(c *gin.Context) {
	tag, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, tag.UserID, tagResource) {
		return
	}

	if err := h.tagService.Delete(c.Request.Context(), tag.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(tagLabel))
			return
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) load(c *gin.Context) (*model.Tag, bool) {
	id, ok := parseID(c, tagLabel)
	if !ok {
		return nil, false
	}

	tag, err := h.tagService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(tagLabel))
			return nil, false
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return tag, true
}
