package models

import "time"

// AssignmentType categorises graded work.
type AssignmentType string

const (
	AssignmentHomework AssignmentType = "HOMEWORK"
	AssignmentTest     AssignmentType = "TEST"
	AssignmentQuiz     AssignmentType = "QUIZ"
	AssignmentProject  AssignmentType = "PROJECT"
	AssignmentOther    AssignmentType = "OTHER"
)

// Valid returns true when the type is a supported value.
func (t AssignmentType) Valid() bool {
	switch t {
	case AssignmentHomework, AssignmentTest, AssignmentQuiz, AssignmentProject, AssignmentOther:
		return true
	default:
		return false
	}
}

// Assignment is one piece of work shared across one or more classes.
type Assignment struct {
	ID          string         `db:"id" json:"id"`
	TeacherID   string         `db:"teacher_id" json:"teacher_id"`
	Title       string         `db:"title" json:"title"`
	Description *string        `db:"description" json:"description,omitempty"`
	Type        AssignmentType `db:"type" json:"type"`
	DueDate     time.Time      `db:"due_date" json:"due_date"`
	Points      float64        `db:"points" json:"points"`
	IsPublished bool           `db:"is_published" json:"is_published"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AssignmentClassLink ties an assignment to one of its classes.
type AssignmentClassLink struct {
	ID           string `db:"id" json:"id"`
	AssignmentID string `db:"assignment_id" json:"assignment_id"`
	ClassID      string `db:"class_id" json:"class_id"`
	ClassName    string `db:"class_name" json:"class_name"`
}

// AssignmentDetail is an assignment with its class links.
type AssignmentDetail struct {
	Assignment
	Classes []AssignmentClassLink `json:"classes"`
}

// StudentAssignment is the per-student stub materialized by the fan-out.
type StudentAssignment struct {
	ID           string     `db:"id" json:"id"`
	AssignmentID string     `db:"assignment_id" json:"assignment_id"`
	StudentID    string     `db:"student_id" json:"student_id"`
	SubmittedAt  *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
