package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qforge/qbank-backend/internal/middleware"
	"github.com/qforge/qbank-backend/internal/model"
	"github.com/qforge/qbank-backend/internal/response"
	"github.com/qforge/qbank-backend/internal/service"
	"github.com/qforge/qbank-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Signup godoc
// POST /api/auth/signup
// Registers a new account and signs it in immediately.
func (h *AuthHandler) Signup(c *gin.Context) {
	var in model.SignupRequest
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	user, err := h.userService.Signup(c.Request.Context(), &in)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), user.ID, user.Roles)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Could not create session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Signin godoc
// POST /api/auth/signin
func (h *AuthHandler) Signin(c *gin.Context) {
	var in model.SigninRequest
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailFields(c, http.StatusBadRequest, fields)
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), user.ID, user.Roles)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Could not create session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Signout godoc
// POST /api/auth/signout
// Revokes the caller's registered session.
func (h *AuthHandler) Signout(c *gin.Context) {
	caller := middleware.GetCaller(c)
	if caller == nil {
		response.Fail(c, http.StatusUnauthorized, response.MsgNotAuthorized)
		return
	}

	if err := h.authService.InvalidateSession(c.Request.Context(), caller.ID); err != nil {
		response.Fail(c, http.StatusInternalServerError, "Could not end session")
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/auth/me
// Returns the authenticated caller's own account.
func (h *AuthHandler) Me(c *gin.Context) {
	caller := middleware.GetCaller(c)
	if caller == nil {
		response.Fail(c, http.StatusUnauthorized, response.MsgNotAuthorized)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), caller.ID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.NotFound(userLabel))
		return
	}
	c.JSON(http.StatusOK, user)
}
