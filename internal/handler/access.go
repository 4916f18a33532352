package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/qforge/qbank-backend/internal/middleware"
	"github.com/qforge/qbank-backend/internal/policy"
	"github.com/qforge/qbank-backend/internal/response"
)

// parseID reads the :id route parameter. A malformed identifier fails with
// the entity's invalid-id message before any store access.
func parseID(c *gin.Context, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.InvalidID(label))
		return uuid.Nil, false
	}
	return id, true
}

// authorizeEntity runs the item-scope access check against a loaded entity.
// The caller's ownership of the entity short-circuits the role table.
// Writes the failure response itself and reports whether to proceed.
func authorizeEntity(c *gin.Context, p *policy.Policy, ownerID *uuid.UUID, resource string) bool {
	caller := middleware.GetCaller(c)
	method := strings.ToLower(c.Request.Method)

	allowed, err := p.AllowsEntity(caller, ownerID, resource, method)
	if err != nil {
		log.Error().Err(err).Str("component", "handler").
			Str("resource", resource).Msg("policy lookup failed")
		response.Fail(c, http.StatusInternalServerError, response.MsgPolicyError)
		return false
	}
	if !allowed {
		response.Fail(c, http.StatusForbidden, response.MsgNotAuthorized)
		return false
	}
	return true
}

// callerID returns the authenticated user's id, or nil for guests.
func callerID(c *gin.Context) *uuid.UUID {
	caller := middleware.GetCaller(c)
	if caller == nil {
		return nil
	}
	id := caller.ID
	return &id
}

// ownershipFlag computes the isCurrentUserOwner marker for a read response.
// Nil (omitted) for guests.
func ownershipFlag(c *gin.Context, ownerID *uuid.UUID) *bool {
	caller := middleware.GetCaller(c)
	if caller == nil {
		return nil
	}
	owns := ownerID != nil && *ownerID == caller.ID
	return &owns
}
