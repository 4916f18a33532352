package model

import (
	"time"

	"github.com/google/uuid"
)

// Section is the realized portion of a paper for one paper struct: the
// originating request fields plus the questions selected at assembly time.
// Questions are snapshots copied by value, not live references; later edits
// to a question never propagate into an existing paper.
type Section struct {
	QuestType  QuestionKind `json:"questType"`
	Number     int          `json:"number"`
	Difficulty float64      `json:"difficulty"`
	Tags       []string     `json:"tags"`
	Questions  []Question   `json:"questions"`
}

// Paper is an assembled exam paper. The sections list is persisted as one
// denormalized document in a single write.
type Paper struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	SubjectID *uuid.UUID `json:"subject,omitempty"`
	Sections  []Section  `json:"questions"`
	CreatedAt time.Time  `json:"created"`
	UserID    *uuid.UUID `json:"-"`
	Owner     *Owner     `json:"user,omitempty"`

	IsCurrentUserOwner *bool `json:"isCurrentUserOwner,omitempty"`
}

// PaperInput is the assembly request: a template body posted to the papers
// collection. The subject id is validated before any store access.
type PaperInput struct {
	Title        string        `json:"title" binding:"required"`
	Subject      string        `json:"subject" binding:"required"`
	PaperStructs []PaperStruct `json:"paperStructs" binding:"dive"`
}

// PaperUpdate is the payload for a shallow-merge update. Sections are part
// of the persisted snapshot and deliberately not updatable.
type PaperUpdate struct {
	Title   *string `json:"title"`
	Subject *string `json:"subject"`
}
