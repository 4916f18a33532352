package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/qforge/qbank-backend/internal/policy"
	"github.com/qforge/qbank-backend/internal/response"
)

// RequireAccess gates a collection route with the role table. Item routes
// carry an ownership exception and are checked in their handlers instead,
// after the entity is loaded.
func RequireAccess(p *policy.Policy, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := GetCaller(c)
		method := strings.ToLower(c.Request.Method)

		allowed, err := p.Allows(policy.Roles(caller), resource, policy.ScopeCollection, method)
		if err != nil {
			log.Error().Err(err).Str("component", "authorize").
				Str("resource", resource).Msg("policy lookup failed")
			response.AbortFail(c, http.StatusInternalServerError, response.MsgPolicyError)
			return
		}
		if !allowed {
			response.AbortFail(c, http.StatusForbidden, response.MsgNotAuthorized)
			return
		}

		c.Next()
	}
}
