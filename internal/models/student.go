package models

import "time"

// StudentProfile extends a user with student specific attributes.
type StudentProfile struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	StudentNumber string    `db:"student_number" json:"student_number"`
	GradeLevel    int       `db:"grade_level" json:"grade_level"`
	Homeroom      *string   `db:"homeroom" json:"homeroom,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherProfile extends a user with teacher specific attributes.
type TeacherProfile struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	Department *string   `db:"department" json:"department,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ParentContact is a parent linked to a student, flattened for responses.
type ParentContact struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Email        string  `db:"email" json:"email"`
	Phone        *string `db:"phone" json:"phone,omitempty"`
	Relationship *string `db:"relationship" json:"relationship,omitempty"`
}
