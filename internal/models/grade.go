package models

import "time"

// Grade is a scored assignment for one student.
type Grade struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	AssignmentID string    `db:"assignment_id" json:"assignment_id"`
	Score        float64   `db:"score" json:"score"`
	MaxPoints    float64   `db:"max_points" json:"max_points"`
	Percentage   float64   `db:"percentage" json:"percentage"`
	GradedAt     time.Time `db:"graded_at" json:"graded_at"`
}

// ClassGradeRow joins a grade with its assignment title for gradebook reads.
type ClassGradeRow struct {
	StudentID       string    `db:"student_id" json:"student_id"`
	AssignmentID    string    `db:"assignment_id" json:"assignment_id"`
	AssignmentTitle string    `db:"assignment_title" json:"assignment_title"`
	Score           float64   `db:"score" json:"score"`
	MaxPoints       float64   `db:"max_points" json:"max_points"`
	Percentage      float64   `db:"percentage" json:"percentage"`
	GradedAt        time.Time `db:"graded_at" json:"graded_at"`
}

// StudentGradeRow joins a grade with assignment and class context for profiles.
type StudentGradeRow struct {
	AssignmentID    string    `db:"assignment_id" json:"assignment_id"`
	AssignmentTitle string    `db:"assignment_title" json:"assignment_title"`
	ClassID         string    `db:"class_id" json:"class_id"`
	Subject         string    `db:"subject" json:"subject"`
	Percentage      float64   `db:"percentage" json:"percentage"`
	GradedAt        time.Time `db:"graded_at" json:"graded_at"`
}
