package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduhub/eduhub-api/internal/models"
)

// AssignmentRepository handles assignment persistence and the per-student
// fan-out materialization.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts the assignment and its class links in one transaction.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment, classIDs []string) error {
	now := time.Now().UTC()
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create assignment: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			tx.Rollback() //nolint:errcheck
		}
	}()

	const insertAssignment = `INSERT INTO assignments (id, teacher_id, title, description, type, due_date, points, is_published, created_at, updated_at)
        VALUES (:id, :teacher_id, :title, :description, :type, :due_date, :points, :is_published, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertAssignment, assignment); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}

	const insertLink = `INSERT INTO assignment_classes (id, assignment_id, class_id) VALUES ($1, $2, $3)`
	for _, classID := range classIDs {
		if _, err := tx.ExecContext(ctx, insertLink, uuid.NewString(), assignment.ID, classID); err != nil {
			return fmt.Errorf("link assignment to class %s: %w", classID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create assignment: %w", err)
	}
	commit = true
	return nil
}

// MaterializeStudents creates one StudentAssignment stub per student
// currently enrolled in the class, skipping rows that already exist so a
// retry after partial failure does not duplicate stubs.
func (r *AssignmentRepository) MaterializeStudents(ctx context.Context, assignmentID, classID string) (int, error) {
	const query = `INSERT INTO student_assignments (id, assignment_id, student_id, created_at)
        SELECT gen_random_uuid(), $1, ce.student_id, NOW()
        FROM class_enrollments ce
        WHERE ce.class_id = $2
        ON CONFLICT (assignment_id, student_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, assignmentID, classID)
	if err != nil {
		return 0, fmt.Errorf("materialize student assignments: %w", err)
	}
	created, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("materialize student assignments rows affected: %w", err)
	}
	return int(created), nil
}

// ListByTeacher returns the teacher's assignments ordered by due date.
func (r *AssignmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Assignment, error) {
	const query = `SELECT id, teacher_id, title, description, type, due_date, points, is_published, created_at, updated_at
        FROM assignments
        WHERE teacher_id = $1
        ORDER BY due_date DESC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, teacherID); err != nil {
		return nil, fmt.Errorf("list assignments by teacher: %w", err)
	}
	return assignments, nil
}

// ClassLinks returns the class links for the given assignments keyed by
// assignment ID.
func (r *AssignmentRepository) ClassLinks(ctx context.Context, assignmentIDs []string) (map[string][]models.AssignmentClassLink, error) {
	if len(assignmentIDs) == 0 {
		return map[string][]models.AssignmentClassLink{}, nil
	}
	query, args, err := sqlx.In(`SELECT ac.id, ac.assignment_id, ac.class_id, c.name AS class_name
        FROM assignment_classes ac
        JOIN classes c ON c.id = ac.class_id
        WHERE ac.assignment_id IN (?)`, assignmentIDs)
	if err != nil {
		return nil, fmt.Errorf("build class links query: %w", err)
	}
	query = r.db.Rebind(query)
	var links []models.AssignmentClassLink
	if err := r.db.SelectContext(ctx, &links, query, args...); err != nil {
		return nil, fmt.Errorf("fetch assignment class links: %w", err)
	}
	result := make(map[string][]models.AssignmentClassLink, len(assignmentIDs))
	for _, link := range links {
		result[link.AssignmentID] = append(result[link.AssignmentID], link)
	}
	return result, nil
}
