package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eduhub/eduhub-api/internal/models"
)

// StudentDetail joins a student profile with its user account fields.
type StudentDetail struct {
	models.StudentProfile
	FirstName string  `db:"first_name"`
	LastName  string  `db:"last_name"`
	Avatar    *string `db:"avatar"`
}

// StudentRepository reads student profiles and their parent links.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindDetail returns the student profile with user display fields.
func (r *StudentRepository) FindDetail(ctx context.Context, id string) (*StudentDetail, error) {
	const query = `SELECT sp.id, sp.user_id, sp.student_number, sp.grade_level, sp.homeroom, sp.created_at, sp.updated_at,
        u.first_name, u.last_name, u.avatar
        FROM student_profiles sp
        JOIN users u ON u.id = sp.user_id
        WHERE sp.id = $1 LIMIT 1`
	var detail StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Parents returns the student's linked parent contacts.
func (r *StudentRepository) Parents(ctx context.Context, studentID string) ([]models.ParentContact, error) {
	const query = `SELECT pp.id, u.first_name || ' ' || u.last_name AS name, u.email, u.phone, ps.relationship
        FROM parent_students ps
        JOIN parent_profiles pp ON pp.id = ps.parent_id
        JOIN users u ON u.id = pp.user_id
        WHERE ps.student_id = $1
        ORDER BY name ASC`
	var parents []models.ParentContact
	if err := r.db.SelectContext(ctx, &parents, query, studentID); err != nil {
		return nil, fmt.Errorf("list student parents: %w", err)
	}
	return parents, nil
}

// Subjects returns the subjects of the classes the student is enrolled in.
func (r *StudentRepository) Subjects(ctx context.Context, studentID string) ([]EnrolledSubject, error) {
	const query = `SELECT ce.class_id, c.subject
        FROM class_enrollments ce
        JOIN classes c ON c.id = ce.class_id
        WHERE ce.student_id = $1
        ORDER BY c.subject ASC`
	var subjects []EnrolledSubject
	if err := r.db.SelectContext(ctx, &subjects, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrolled subjects: %w", err)
	}
	return subjects, nil
}

// EnrolledSubject pairs an enrollment's class with its subject name.
type EnrolledSubject struct {
	ClassID string `db:"class_id"`
	Subject string `db:"subject"`
}
