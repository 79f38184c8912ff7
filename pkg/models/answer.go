package models

import (
	"time"

	"github.com/google/uuid"
)

// Status values for answers
const (
	AnswerStatusNormal   = "normal"
	AnswerStatusExcluded = "excluded" // kept for history, ignored by resolution
)

// Answer is one time-stamped observation recorded against a subject
// for a question. Answers are append-only: corrections are new rows,
// and the newest normal, non-deleted row wins for current-state reads.
// Stored in the answers table.
type Answer struct {
	ID           uuid.UUID  `json:"id"`
	Seq          int64      `json:"-"` // monotonically increasing insert order, tie-break for equal created_at
	OwnerUserID  uuid.UUID  `json:"owner_user_id"`
	AnimalTypeID int        `json:"animal_type_id"`
	AnimalNumber string     `json:"animal_number"`
	QuestionID   uuid.UUID  `json:"question_id"`
	Tag          Tag        `json:"tag"` // denormalized from the question at submission time
	Value        string     `json:"value"`
	LogicValue   string     `json:"logic_value,omitempty"` // auxiliary categorical hint ("cow", "calf", ...)
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Subject returns the animal-instance key the answer belongs to.
func (a *Answer) Subject() Subject {
	return Subject{
		OwnerUserID:  a.OwnerUserID,
		AnimalTypeID: a.AnimalTypeID,
		AnimalNumber: a.AnimalNumber,
	}
}

// IsActive reports whether the answer participates in resolution and
// aggregation.
func (a *Answer) IsActive() bool {
	return a.Status == AnswerStatusNormal && a.DeletedAt == nil
}
