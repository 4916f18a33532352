package policy

import (
	"testing"

	"github.com/google/uuid"

	"github.com/qforge/qbank-backend/internal/model"
)

func TestStandardResourceRules(t *testing.T) {
	p := New()

	tests := []struct {
		name   string
		roles  []string
		scope  Scope
		method string
		want   bool
	}{
		{"admin any collection method", []string{model.RoleAdmin}, ScopeCollection, "delete", true},
		{"admin any item method", []string{model.RoleAdmin}, ScopeItem, "put", true},
		{"user lists", []string{model.RoleUser}, ScopeCollection, "get", true},
		{"user creates", []string{model.RoleUser}, ScopeCollection, "post", true},
		{"user reads item", []string{model.RoleUser}, ScopeItem, "get", true},
		{"user cannot put item", []string{model.RoleUser}, ScopeItem, "put", false},
		{"user cannot delete item", []string{model.RoleUser}, ScopeItem, "delete", false},
		{"guest lists", []string{model.RoleGuest}, ScopeCollection, "get", true},
		{"guest cannot create", []string{model.RoleGuest}, ScopeCollection, "post", false},
		{"guest reads item", []string{model.RoleGuest}, ScopeItem, "get", true},
		{"guest cannot delete item", []string{model.RoleGuest}, ScopeItem, "delete", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Allows(tt.roles, "papers", tt.scope, tt.method)
			if err != nil {
				t.Fatalf("Allows() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Allows() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuestTemplatesAreReadOnlyForUsers(t *testing.T) {
	p := New()

	allowed, err := p.Allows([]string{model.RoleUser}, "questTemplates", ScopeCollection, "post")
	if err != nil {
		t.Fatalf("Allows() error = %v", err)
	}
	if allowed {
		t.Error("users must not create quest templates")
	}

	allowed, err = p.Allows([]string{model.RoleAdmin}, "questTemplates", ScopeCollection, "post")
	if err != nil {
		t.Fatalf("Allows() error = %v", err)
	}
	if !allowed {
		t.Error("admins create quest templates")
	}
}

func TestUsersResourceIsAdminOnly(t *testing.T) {
	p := New()

	for _, role := range []string{model.RoleUser, model.RoleGuest} {
		allowed, err := p.Allows([]string{role}, "users", ScopeCollection, "get")
		if err != nil {
			t.Fatalf("Allows() error = %v", err)
		}
		if allowed {
			t.Errorf("role %s must not list users", role)
		}
	}
}

func TestUnknownResourceIsAnErrorNotADenial(t *testing.T) {
	p := New()

	_, err := p.Allows([]string{model.RoleAdmin}, "widgets", ScopeCollection, "get")
	if err == nil {
		t.Fatal("unknown resource should surface a lookup error")
	}
}

func TestOwnershipShortCircuitsRoleTable(t *testing.T) {
	p := New()

	ownerID := uuid.New()
	caller := &Caller{ID: ownerID, Roles: []string{model.RoleUser}}

	// A plain user may not delete items, but ownership overrides that.
	allowed, err := p.AllowsEntity(caller, &ownerID, "papers", "delete")
	if err != nil {
		t.Fatalf("AllowsEntity() error = %v", err)
	}
	if !allowed {
		t.Error("owner should manipulate their own entity")
	}

	// Someone else's entity falls back to the role table.
	otherID := uuid.New()
	allowed, err = p.AllowsEntity(caller, &otherID, "papers", "delete")
	if err != nil {
		t.Fatalf("AllowsEntity() error = %v", err)
	}
	if allowed {
		t.Error("non-owner user must not delete")
	}
}

func TestOwnershipIgnoredForUnknownResourceOwner(t *testing.T) {
	p := New()

	// Ownership of an entity on an unregistered resource still wins; the
	// table is never consulted.
	ownerID := uuid.New()
	caller := &Caller{ID: ownerID, Roles: []string{model.RoleUser}}
	allowed, err := p.AllowsEntity(caller, &ownerID, "widgets", "delete")
	if err != nil {
		t.Fatalf("AllowsEntity() error = %v", err)
	}
	if !allowed {
		t.Error("ownership check must run before the resource lookup")
	}
}

func TestGuestAndOrphanedEntities(t *testing.T) {
	p := New()

	// Guest reading an orphaned entity (owner deleted) uses the table.
	allowed, err := p.AllowsEntity(nil, nil, "papers", "get")
	if err != nil {
		t.Fatalf("AllowsEntity() error = %v", err)
	}
	if !allowed {
		t.Error("guests read items")
	}

	allowed, err = p.AllowsEntity(nil, nil, "papers", "delete")
	if err != nil {
		t.Fatalf("AllowsEntity() error = %v", err)
	}
	if allowed {
		t.Error("guests must not delete")
	}
}

func TestRolesDefaultsToGuest(t *testing.T) {
	if got := Roles(nil); len(got) != 1 || got[0] != model.RoleGuest {
		t.Errorf("Roles(nil) = %v, want [guest]", got)
	}
	if got := Roles(&Caller{}); len(got) != 1 || got[0] != model.RoleGuest {
		t.Errorf("Roles(empty caller) = %v, want [guest]", got)
	}
}
