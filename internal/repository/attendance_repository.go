package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduhub/eduhub-api/internal/models"
)

// AttendanceRepository handles persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert writes exactly one row per (class, student, date, period) key.
// An existing row has its status, marked_by and updated_at overwritten;
// concurrent writers resolve last-writer-wins through the uniqueness
// constraint, with no detection of lost updates.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO attendance_records (id, class_id, student_id, date, period, status, marked_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (class_id, student_id, date, COALESCE(period, -1))
DO UPDATE SET status = EXCLUDED.status, marked_by = EXCLUDED.marked_by, updated_at = EXCLUDED.updated_at
RETURNING id, class_id, student_id, date, period, status, marked_by, created_at, updated_at`
	var stored models.AttendanceRecord
	if err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.ClassID, record.StudentID, record.Date, record.Period,
		record.Status, record.MarkedBy, record.CreatedAt, record.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	return &stored, nil
}

// ForClassDate returns the records for one class on one day. The day is a
// half-open interval [date 00:00, date+24h). A nil period matches rows
// with a null period only; it does not aggregate across periods.
func (r *AttendanceRepository) ForClassDate(ctx context.Context, classID string, date time.Time, period *int) ([]models.AttendanceRecord, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `SELECT id, class_id, student_id, date, period, status, marked_by, created_at, updated_at
        FROM attendance_records
        WHERE class_id = $1 AND date >= $2 AND date < $3`
	args := []interface{}{classID, dayStart, dayEnd}
	if period != nil {
		query += fmt.Sprintf(" AND period = $%d", len(args)+1)
		args = append(args, *period)
	} else {
		query += " AND period IS NULL"
	}

	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("attendance for class date: %w", err)
	}
	return records, nil
}

// RecentByStudent returns the student's most recent records with class names.
func (r *AttendanceRepository) RecentByStudent(ctx context.Context, studentID string, limit int) ([]models.AttendanceHistoryRow, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT a.date, a.status, c.name AS class_name
        FROM attendance_records a
        JOIN classes c ON c.id = a.class_id
        WHERE a.student_id = $1
        ORDER BY a.date DESC
        LIMIT $2`
	var rows []models.AttendanceHistoryRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID, limit); err != nil {
		return nil, fmt.Errorf("recent attendance by student: %w", err)
	}
	return rows, nil
}
