package model

import (
	"time"

	"github.com/google/uuid"
)

// PaperStruct is one line-item of a template: a declarative request for a
// number of questions of one kind around a target difficulty, optionally
// narrowed by tags.
type PaperStruct struct {
	QuestType  QuestionKind `json:"questType" binding:"required,oneof=singleChoice multiChoice blank judge questAnswer mixing"`
	Number     int          `json:"number" binding:"required,min=1"`
	Difficulty float64      `json:"difficulty" binding:"gte=0,lte=5"`
	Tags       []string     `json:"tags"`
}

// Template holds an ordered list of paper structs for paper assembly.
type Template struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	SubjectID    *uuid.UUID    `json:"subject,omitempty"`
	IsDefault    bool          `json:"isDefault"`
	PaperStructs []PaperStruct `json:"paperStructs"`
	CreatedAt    time.Time     `json:"created"`
	UserID       *uuid.UUID    `json:"-"`
	Owner        *Owner        `json:"user,omitempty"`

	IsCurrentUserOwner *bool `json:"isCurrentUserOwner,omitempty"`
}

// TemplateInput is the payload for creating a template.
type TemplateInput struct {
	Title        string        `json:"title" binding:"required"`
	Subject      string        `json:"subject"`
	IsDefault    bool          `json:"isDefault"`
	PaperStructs []PaperStruct `json:"paperStructs" binding:"dive"`
}

// TemplateUpdate is the payload for a shallow-merge update.
type TemplateUpdate struct {
	Title        *string        `json:"title"`
	Subject      *string        `json:"subject"`
	IsDefault    *bool          `json:"isDefault"`
	PaperStructs *[]PaperStruct `json:"paperStructs" binding:"omitempty,dive"`
}
