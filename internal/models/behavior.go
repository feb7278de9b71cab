package models

import "time"

// BehaviorNoteType represents the nature of a note.
type BehaviorNoteType string

const (
	BehaviorPositive BehaviorNoteType = "POSITIVE"
	BehaviorNegative BehaviorNoteType = "NEGATIVE"
	BehaviorNeutral  BehaviorNoteType = "NEUTRAL"
)

// BehaviorNote captures behavioural information for a student.
type BehaviorNote struct {
	ID          string           `db:"id" json:"id"`
	StudentID   string           `db:"student_id" json:"student_id"`
	TeacherID   string           `db:"teacher_id" json:"teacher_id"`
	Type        BehaviorNoteType `db:"type" json:"type"`
	Title       string           `db:"title" json:"title"`
	Description *string          `db:"description" json:"description,omitempty"`
	NoteDate    time.Time        `db:"date" json:"date"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}
