package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eduhub/eduhub-api/internal/models"
)

// RosterRepository resolves the classes a teacher is authorized over and
// the students enrolled in a class.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository creates a new roster repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// TeacherByUserID resolves a teacher profile from its user account.
func (r *RosterRepository) TeacherByUserID(ctx context.Context, userID string) (*models.TeacherProfile, error) {
	const query = `SELECT id, user_id, employee_id, department, created_at, updated_at
        FROM teacher_profiles WHERE user_id = $1 LIMIT 1`
	var teacher models.TeacherProfile
	if err := r.db.GetContext(ctx, &teacher, query, userID); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// ListClassesByTeacher returns the classes the teacher appears on.
func (r *RosterRepository) ListClassesByTeacher(ctx context.Context, teacherID string) ([]models.Class, error) {
	const query = `SELECT c.id, c.name, c.subject, c.section, c.grade_level, c.room, c.google_classroom_id, c.created_at, c.updated_at
        FROM classes c
        JOIN class_teachers ct ON ct.class_id = c.id
        WHERE ct.teacher_id = $1
        ORDER BY c.name ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, teacherID); err != nil {
		return nil, fmt.Errorf("list classes by teacher: %w", err)
	}
	return classes, nil
}

// IsAuthorized reports whether the teacher appears on the class roster.
// Every mutating attendance or assignment operation checks this first.
func (r *RosterRepository) IsAuthorized(ctx context.Context, teacherID, classID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM class_teachers WHERE teacher_id = $1 AND class_id = $2)`
	var authorized bool
	if err := r.db.GetContext(ctx, &authorized, query, teacherID, classID); err != nil {
		return false, fmt.Errorf("check class authorization: %w", err)
	}
	return authorized, nil
}

// AuthorizedCount returns how many of the given classes the teacher is on.
func (r *RosterRepository) AuthorizedCount(ctx context.Context, teacherID string, classIDs []string) (int, error) {
	if len(classIDs) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`SELECT COUNT(*) FROM class_teachers WHERE teacher_id = ? AND class_id IN (?)`, teacherID, classIDs)
	if err != nil {
		return 0, fmt.Errorf("build authorized count query: %w", err)
	}
	query = r.db.Rebind(query)
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count authorized classes: %w", err)
	}
	return count, nil
}

// ListEnrolledStudents returns the current roster of a class.
func (r *RosterRepository) ListEnrolledStudents(ctx context.Context, classID string) ([]models.RosterStudent, error) {
	const query = `SELECT sp.id, sp.student_number, u.first_name || ' ' || u.last_name AS name, u.email
        FROM class_enrollments ce
        JOIN student_profiles sp ON sp.id = ce.student_id
        JOIN users u ON u.id = sp.user_id
        WHERE ce.class_id = $1
        ORDER BY u.last_name ASC, u.first_name ASC`
	var students []models.RosterStudent
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list enrolled students: %w", err)
	}
	return students, nil
}
