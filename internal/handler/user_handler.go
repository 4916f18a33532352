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
	userResource = "users"
	userLabel    = "User"
)

// UserHandler handles user administration endpoints. The whole resource is
// admin-only through the policy table; accounts carry no owner so the
// ownership exception never applies.
type UserHandler struct {
	userService *service.UserService
	policy      *policy.Policy
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, p *policy.Policy) *UserHandler {
	return &UserHandler{userService: userService, policy: p}
}

// List godoc
// GET /api/users?page=1&limit=10
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.userService.List(c.Request.Context(), page, limit)
	if err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create godoc
// POST /api/users
// Admin-created accounts go through the same registration path as signup.
func (h *UserHandler) Create(c *gin.Context) {
	var in model.SignupRequest
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusUnprocessableEntity, fields)
		return
	}

	user, err := h.userService.Signup(c.Request.Context(), &in)
	if err != nil {
		response.Fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, user)
}

// Get godoc
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, nil, userResource) {
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update godoc
// PUT /api/users/:id
// Only the whitelisted profile fields are applied.
func (h *UserHandler) Update(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, nil, userResource) {
		return
	}

	var in model.UserUpdate
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusUnprocessableEntity, fields)
		return
	}

	updated, err := h.userService.Update(c.Request.Context(), user.ID, &in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(userLabel))
			return
		}
		response.Fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete godoc
// DELETE /api/users/:id
// Entities the account owned survive with a detached owner.
func (h *UserHandler) Delete(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}
	if !authorizeEntity(c, h.policy, nil, userResource) {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(userLabel))
			return
		}
		response.Fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) load(c *gin.Context) (*model.User, bool) {
	id, ok := parseID(c, userLabel)
	if !ok {
		return nil, false
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.NotFound(userLabel))
			return nil, false
		}
		response.Fail(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return user, true
}
