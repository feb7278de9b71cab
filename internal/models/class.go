package models

import "time"

// Class represents a section of a subject taught to a roster of students.
type Class struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Subject           string    `db:"subject" json:"subject"`
	Section           string    `db:"section" json:"section"`
	GradeLevel        int       `db:"grade_level" json:"grade_level"`
	Room              *string   `db:"room" json:"room,omitempty"`
	GoogleClassroomID *string   `db:"google_classroom_id" json:"google_classroom_id,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// RosterStudent is one enrolled student on a class roster.
type RosterStudent struct {
	ID            string `db:"id" json:"id"`
	StudentNumber string `db:"student_number" json:"student_number"`
	Name          string `db:"name" json:"name"`
	Email         string `db:"email" json:"email"`
}
