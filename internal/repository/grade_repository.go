package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eduhub/eduhub-api/internal/models"
)

// GradeRepository reads grade rows for gradebook and profile aggregation.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// ListByClass returns grades whose assignment is linked to the class. A
// grade is excluded when its assignment was reassigned or removed from
// the class, enforced by the join on assignment_classes.
func (r *GradeRepository) ListByClass(ctx context.Context, classID string) ([]models.ClassGradeRow, error) {
	const query = `SELECT g.student_id, g.assignment_id, a.title AS assignment_title, g.score, g.max_points, g.percentage, g.graded_at
        FROM grades g
        JOIN assignments a ON a.id = g.assignment_id
        JOIN assignment_classes ac ON ac.assignment_id = a.id
        WHERE ac.class_id = $1
        ORDER BY g.graded_at DESC`
	var rows []models.ClassGradeRow
	if err := r.db.SelectContext(ctx, &rows, query, classID); err != nil {
		return nil, fmt.Errorf("list grades by class: %w", err)
	}
	return rows, nil
}

// ListByStudent returns every grade for a student with class context.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID string) ([]models.StudentGradeRow, error) {
	const query = `SELECT g.assignment_id, a.title AS assignment_title, ac.class_id, c.subject, g.percentage, g.graded_at
        FROM grades g
        JOIN assignments a ON a.id = g.assignment_id
        JOIN assignment_classes ac ON ac.assignment_id = a.id
        JOIN classes c ON c.id = ac.class_id
        WHERE g.student_id = $1
        ORDER BY g.graded_at DESC`
	var rows []models.StudentGradeRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list grades by student: %w", err)
	}
	return rows, nil
}

// AssignmentsForClass returns the gradebook columns for a class ordered
// by due date descending.
func (r *GradeRepository) AssignmentsForClass(ctx context.Context, classID string) ([]models.Assignment, error) {
	const query = `SELECT a.id, a.teacher_id, a.title, a.description, a.type, a.due_date, a.points, a.is_published, a.created_at, a.updated_at
        FROM assignments a
        JOIN assignment_classes ac ON ac.assignment_id = a.id
        WHERE ac.class_id = $1
        ORDER BY a.due_date DESC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, classID); err != nil {
		return nil, fmt.Errorf("list class assignments: %w", err)
	}
	return assignments, nil
}
