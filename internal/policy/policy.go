// Package policy implements the role-based access table gating every API
// resource. The table is an explicit value constructed at startup and passed
// into handlers; there is no ambient global.
package policy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/qforge/qbank-backend/internal/model"
)

// Scope distinguishes collection routes (/api/X) from item routes
// (/api/X/:id) in the rule table.
type Scope string

const (
	ScopeCollection Scope = "collection"
	ScopeItem       Scope = "item"
)

// Caller identifies an authenticated requester. A nil *Caller means guest.
type Caller struct {
	ID    uuid.UUID
	Roles []string
}

// rule maps a role to the lowercased HTTP methods it may use, per scope.
// A "*" entry permits every method.
type rule map[string]map[Scope][]string

// Policy is the process-wide authorization ruleset.
type Policy struct {
	resources map[string]rule
}

// standardRule is the shape shared by most resources: admins unrestricted,
// users may list/create and read items, guests read-only.
var standardRule = rule{
	model.RoleAdmin: {ScopeCollection: {"*"}, ScopeItem: {"*"}},
	model.RoleUser:  {ScopeCollection: {"get", "post"}, ScopeItem: {"get"}},
	model.RoleGuest: {ScopeCollection: {"get"}, ScopeItem: {"get"}},
}

// readOnlyUserRule restricts the user role to reads on both scopes.
var readOnlyUserRule = rule{
	model.RoleAdmin: {ScopeCollection: {"*"}, ScopeItem: {"*"}},
	model.RoleUser:  {ScopeCollection: {"get"}, ScopeItem: {"get"}},
	model.RoleGuest: {ScopeCollection: {"get"}, ScopeItem: {"get"}},
}

// adminOnlyRule locks a resource down to admins entirely.
var adminOnlyRule = rule{
	model.RoleAdmin: {ScopeCollection: {"*"}, ScopeItem: {"*"}},
}

// New constructs the policy table for every registered resource.
func New() *Policy {
	p := &Policy{resources: make(map[string]rule)}

	standard := []string{
		"papers", "templates", "subjects", "tags",
		"singlechoices", "multichoices", "blanks", "judges",
		"questanswers", "mixings",
		"mixsinglechoices", "mixmultichoices", "mixblanks",
		"mixjudges", "mixquestanswers",
	}
	for _, res := range standard {
		p.resources[res] = standardRule
	}

	p.resources["questTemplates"] = readOnlyUserRule
	p.resources["users"] = adminOnlyRule

	return p
}

// Allows reports whether any of the caller's roles may use method on the
// resource at the given scope. An unknown resource is a lookup failure,
// distinct from a denial.
func (p *Policy) Allows(roles []string, resource string, scope Scope, method string) (bool, error) {
	r, ok := p.resources[resource]
	if !ok {
		return false, fmt.Errorf("policy: unknown resource %q", resource)
	}

	for _, role := range roles {
		methods, ok := r[role][scope]
		if !ok {
			continue
		}
		for _, m := range methods {
			if m == "*" || m == method {
				return true, nil
			}
		}
	}
	return false, nil
}

// AllowsEntity authorizes an item-scope request against a loaded entity.
// If the caller created the entity, any manipulation is allowed; the
// ownership check runs before — and short-circuits — the role table.
func (p *Policy) AllowsEntity(caller *Caller, ownerID *uuid.UUID, resource, method string) (bool, error) {
	if caller != nil && ownerID != nil && *ownerID == caller.ID {
		return true, nil
	}
	return p.Allows(Roles(caller), resource, ScopeItem, method)
}

// Roles returns the caller's roles, or the guest role for nil callers.
func Roles(caller *Caller) []string {
	if caller == nil || len(caller.Roles) == 0 {
		return []string{model.RoleGuest}
	}
	return caller.Roles
}
