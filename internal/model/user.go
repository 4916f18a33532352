package model

import (
	"time"

	"github.com/google/uuid"
)

// Role names recognized by the access policy.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleGuest = "guest"
)

// User is an account that can own entities. Unauthenticated callers are
// treated as role guest and never reach this type.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	DisplayName  string    `json:"displayName"`
	Roles        []string  `json:"roles"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created"`
}

// SignupRequest is the payload for registering a new user (role "user").
type SignupRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=64"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// SigninRequest is the payload for logging in.
type SigninRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserUpdate carries the only fields an admin may change on a user.
// Unlike every other entity, user updates are whitelisted, not merged
// wholesale from the body.
type UserUpdate struct {
	FirstName   *string   `json:"firstName"`
	LastName    *string   `json:"lastName"`
	DisplayName *string   `json:"displayName"`
	Roles       *[]string `json:"roles" binding:"omitempty,dive,oneof=user admin"`
}

// UserPage mirrors the paginated list shape the original API exposed.
type UserPage struct {
	Docs  []User `json:"docs"`
	Total int    `json:"total"`
	Limit int    `json:"limit"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}
