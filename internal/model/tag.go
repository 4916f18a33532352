package model

import (
	"time"

	"github.com/google/uuid"
)

// Tag labels questions within a subject. A nil subject means the tag is
// shared across all subjects.
type Tag struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	SubjectID *uuid.UUID `json:"subject,omitempty"`
	CreatedAt time.Time  `json:"created"`
	UserID    *uuid.UUID `json:"-"`
	Owner     *Owner     `json:"user,omitempty"`

	IsCurrentUserOwner *bool `json:"isCurrentUserOwner,omitempty"`
}

// TagInput is the payload for creating a tag.
type TagInput struct {
	Name    string `json:"name" binding:"required"`
	Subject string `json:"subject"`
}

// TagUpdate is the payload for a shallow-merge update.
type TagUpdate struct {
	Name    *string `json:"name"`
	Subject *string `json:"subject"`
}

// TagFilter narrows tag listing: by subject, shared-only, or the union of
// a subject's tags and the shared ones.
type TagFilter struct {
	SubjectID *uuid.UUID
	Shared    bool
}
