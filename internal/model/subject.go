package model

import (
	"time"

	"github.com/google/uuid"
)

// Subject represents an academic subject questions belong to.
type Subject struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code,omitempty"`
	IsDefault bool       `json:"isDefault"`
	CreatedAt time.Time  `json:"created"`
	UserID    *uuid.UUID `json:"-"`
	Owner     *Owner     `json:"user,omitempty"`

	IsCurrentUserOwner *bool `json:"isCurrentUserOwner,omitempty"`
}

// SubjectInput is the payload for creating a subject.
type SubjectInput struct {
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code"`
	IsDefault bool   `json:"isDefault"`
}

// SubjectUpdate is the payload for a shallow-merge update.
type SubjectUpdate struct {
	Name      *string `json:"name"`
	Code      *string `json:"code"`
	IsDefault *bool   `json:"isDefault"`
}

// SubjectPage mirrors the paginated list shape the original API exposed.
type SubjectPage struct {
	Docs  []Subject `json:"docs"`
	Total int       `json:"total"`
	Limit int       `json:"limit"`
	Page  int       `json:"page"`
	Pages int       `json:"pages"`
}
