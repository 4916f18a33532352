package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// QuestionKind discriminates the closed set of question variants.
// The wire values match the questType field used in template paper structs.
type QuestionKind string

const (
	KindSingleChoice QuestionKind = "singleChoice"
	KindMultiChoice  QuestionKind = "multiChoice"
	KindBlank        QuestionKind = "blank"
	KindJudge        QuestionKind = "judge"
	KindQuestAnswer  QuestionKind = "questAnswer"
	KindMixing       QuestionKind = "mixing"
)

// QuestionKinds lists every kind in a stable order, used for route wiring.
var QuestionKinds = []QuestionKind{
	KindSingleChoice,
	KindMultiChoice,
	KindBlank,
	KindJudge,
	KindQuestAnswer,
	KindMixing,
}

// DefaultDifficulty is applied when a question is created without one.
const DefaultDifficulty = 4

// Resource returns the API collection name for a kind, e.g. "singlechoices".
func (k QuestionKind) Resource() string {
	return questionKindInfo[k].resource
}

// Label returns the entity label used in client-facing messages,
// e.g. "Singlechoice".
func (k QuestionKind) Label() string {
	return questionKindInfo[k].label
}

// Valid reports whether k is one of the six known kinds.
func (k QuestionKind) Valid() bool {
	_, ok := questionKindInfo[k]
	return ok
}

var questionKindInfo = map[QuestionKind]struct {
	resource string
	label    string
}{
	KindSingleChoice: {"singlechoices", "Singlechoice"},
	KindMultiChoice:  {"multichoices", "Multichoice"},
	KindBlank:        {"blanks", "Blank"},
	KindJudge:        {"judges", "Judge"},
	KindQuestAnswer:  {"questanswers", "Questanswer"},
	KindMixing:       {"mixings", "Mixing"},
}

// Question is the single tagged-variant entity backing all six question
// kinds. Kind-specific fields are nullable and validated per kind at the
// service layer.
type Question struct {
	ID          uuid.UUID       `json:"id"`
	Kind        QuestionKind    `json:"kind"`
	Stem        string          `json:"stem"`
	Difficulty  float64         `json:"difficulty"`
	Description string          `json:"description,omitempty"`
	ChoiceItems json.RawMessage `json:"choiceItems,omitempty"`
	Answer      json.RawMessage `json:"answer,omitempty"`
	BlankNumber *int            `json:"blankNumber,omitempty"`
	SubQuests   json.RawMessage `json:"subQuests,omitempty"`
	SubjectID   *uuid.UUID      `json:"subject,omitempty"`
	Tags        []string        `json:"tags"`
	Analysis    string          `json:"analysis,omitempty"`
	// Random is the 2-D sampling coordinate, assigned once at creation
	// and never updated afterwards.
	Random    [2]float64 `json:"random"`
	CreatedAt time.Time  `json:"created"`
	UserID    *uuid.UUID `json:"-"`
	Owner     *Owner     `json:"user,omitempty"`
	// IsCurrentUserOwner is computed on single reads, never persisted.
	IsCurrentUserOwner *bool `json:"isCurrentUserOwner,omitempty"`
}

// QuestionInput is the payload for creating a question of any kind.
type QuestionInput struct {
	Stem        string          `json:"stem" binding:"required"`
	Difficulty  *float64        `json:"difficulty" binding:"omitempty,gte=0,lte=5"`
	Description string          `json:"description"`
	ChoiceItems json.RawMessage `json:"choiceItems"`
	Answer      json.RawMessage `json:"answer"`
	BlankNumber *int            `json:"blankNumber" binding:"omitempty,min=1"`
	SubQuests   json.RawMessage `json:"subQuests"`
	Subject     string          `json:"subject"`
	Tags        []string        `json:"tags"`
	Analysis    string          `json:"analysis"`
}

// QuestionUpdate is the payload for a shallow-merge update. Only fields
// present in the body are merged into the persisted document; the sampling
// coordinate is immutable and has no counterpart here.
type QuestionUpdate struct {
	Stem        *string         `json:"stem"`
	Difficulty  *float64        `json:"difficulty" binding:"omitempty,gte=0,lte=5"`
	Description *string         `json:"description"`
	ChoiceItems json.RawMessage `json:"choiceItems"`
	Answer      json.RawMessage `json:"answer"`
	BlankNumber *int            `json:"blankNumber" binding:"omitempty,min=1"`
	SubQuests   json.RawMessage `json:"subQuests"`
	Subject     *string         `json:"subject"`
	Tags        *[]string       `json:"tags"`
	Analysis    *string         `json:"analysis"`
}

// SelectionQuery describes one bounded randomized lookup issued by the
// selection engine: kind + subject + difficulty window + tag superset,
// ordered by proximity to the sampling anchor.
type SelectionQuery struct {
	Kind          QuestionKind
	SubjectID     uuid.UUID
	MinDifficulty float64
	MaxDifficulty float64
	Tags          []string
	AnchorX       float64
	AnchorY       float64
	Limit         int
}
