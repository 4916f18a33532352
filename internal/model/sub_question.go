package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SubQuestionKind discriminates the sub-question variants embedded into
// mixing questions. They carry no difficulty, subject or sampling
// coordinate; selection never queries them directly.
type SubQuestionKind string

const (
	KindMixSingleChoice SubQuestionKind = "mixSingleChoice"
	KindMixMultiChoice  SubQuestionKind = "mixMultiChoice"
	KindMixBlank        SubQuestionKind = "mixBlank"
	KindMixJudge        SubQuestionKind = "mixJudge"
	KindMixQuestAnswer  SubQuestionKind = "mixQuestAnswer"
)

// SubQuestionKinds lists every sub-question kind, used for route wiring.
var SubQuestionKinds = []SubQuestionKind{
	KindMixSingleChoice,
	KindMixMultiChoice,
	KindMixBlank,
	KindMixJudge,
	KindMixQuestAnswer,
}

// Resource returns the API collection name for a sub-question kind.
func (k SubQuestionKind) Resource() string {
	return subQuestionKindInfo[k].resource
}

// Label returns the entity label used in client-facing messages.
func (k SubQuestionKind) Label() string {
	return subQuestionKindInfo[k].label
}

var subQuestionKindInfo = map[SubQuestionKind]struct {
	resource string
	label    string
}{
	KindMixSingleChoice: {"mixsinglechoices", "Mixsinglechoice"},
	KindMixMultiChoice:  {"mixmultichoices", "Mixmultichoice"},
	KindMixBlank:        {"mixblanks", "Mixblank"},
	KindMixJudge:        {"mixjudges", "Mixjudge"},
	KindMixQuestAnswer:  {"mixquestanswers", "Mixquestanswer"},
}

// SubQuestion is a building block for mixing questions.
type SubQuestion struct {
	ID          uuid.UUID       `json:"id"`
	Kind        SubQuestionKind `json:"kind"`
	Stem        string          `json:"stem"`
	ChoiceItems json.RawMessage `json:"choiceItems,omitempty"`
	Answer      json.RawMessage `json:"answer,omitempty"`
	BlankNumber *int            `json:"blankNumber,omitempty"`
	Analysis    string          `json:"analysis,omitempty"`
	CreatedAt   time.Time       `json:"created"`
	UserID      *uuid.UUID      `json:"-"`
	Owner       *Owner          `json:"user,omitempty"`

	IsCurrentUserOwner *bool `json:"isCurrentUserOwner,omitempty"`
}

// SubQuestionInput is the payload for creating a sub-question.
type SubQuestionInput struct {
	Stem        string          `json:"stem" binding:"required"`
	ChoiceItems json.RawMessage `json:"choiceItems"`
	Answer      json.RawMessage `json:"answer"`
	BlankNumber *int            `json:"blankNumber" binding:"omitempty,min=1"`
	Analysis    string          `json:"analysis"`
}

// SubQuestionUpdate is the payload for a shallow-merge update.
type SubQuestionUpdate struct {
	Stem        *string         `json:"stem"`
	ChoiceItems json.RawMessage `json:"choiceItems"`
	Answer      json.RawMessage `json:"answer"`
	BlankNumber *int            `json:"blankNumber" binding:"omitempty,min=1"`
	Analysis    *string         `json:"analysis"`
}
