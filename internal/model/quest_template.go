package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestTemplate is a stock, mostly read-only template descriptor seeded at
// install time. Subject is a plain display string here, not a reference.
type QuestTemplate struct {
	ID             uuid.UUID  `json:"id"`
	IsDefault      bool       `json:"isDefault"`
	Subject        string     `json:"subject"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	QuestionNumber int        `json:"questionNumber"`
	CreatedAt      time.Time  `json:"created"`
	UserID         *uuid.UUID `json:"-"`
	Owner          *Owner     `json:"user,omitempty"`

	IsCurrentUserOwner *bool `json:"isCurrentUserOwner,omitempty"`
}

// QuestTemplateInput is the payload for creating a quest template.
type QuestTemplateInput struct {
	IsDefault      bool   `json:"isDefault"`
	Subject        string `json:"subject" binding:"required"`
	Type           string `json:"type" binding:"required"`
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	QuestionNumber int    `json:"questionNumber" binding:"omitempty,min=0"`
}

// QuestTemplateUpdate is the payload for a shallow-merge update.
type QuestTemplateUpdate struct {
	IsDefault      *bool   `json:"isDefault"`
	Subject        *string `json:"subject"`
	Type           *string `json:"type"`
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	QuestionNumber *int    `json:"questionNumber" binding:"omitempty,min=0"`
}
