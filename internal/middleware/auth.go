package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qforge/qbank-backend/internal/policy"
	"github.com/qforge/qbank-backend/internal/response"
	"github.com/qforge/qbank-backend/internal/service"
)

const (
	// ContextKeyCaller is the Gin context key for the authenticated caller.
	ContextKeyCaller = "caller"
)

// Identify resolves the optional Authorization header into a policy.Caller.
// Requests without a token proceed as guests; a present but invalid or
// revoked token is rejected outright.
func Identify(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.MsgNotAuthorized)
			return
		}

		if err := authService.CheckSession(c.Request.Context(), claims); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.MsgNotAuthorized)
			return
		}

		c.Set(ContextKeyCaller, &policy.Caller{ID: claims.UserID, Roles: claims.Roles})
		c.Next()
	}
}

// GetCaller retrieves the authenticated caller from the Gin context.
// Returns nil for guests.
func GetCaller(c *gin.Context) *policy.Caller {
	val, exists := c.Get(ContextKeyCaller)
	if !exists {
		return nil
	}
	caller, ok := val.(*policy.Caller)
	if !ok {
		return nil
	}
	return caller
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
