package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eduhub/eduhub-api/internal/models"
)

// BehaviorRepository reads behavior notes for student profiles.
type BehaviorRepository struct {
	db *sqlx.DB
}

// NewBehaviorRepository creates a new behavior repository.
func NewBehaviorRepository(db *sqlx.DB) *BehaviorRepository {
	return &BehaviorRepository{db: db}
}

// RecentByStudent returns the student's most recent notes.
func (r *BehaviorRepository) RecentByStudent(ctx context.Context, studentID string, limit int) ([]models.BehaviorNote, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `SELECT id, student_id, teacher_id, type, title, description, date, created_at
        FROM behavior_notes
        WHERE student_id = $1
        ORDER BY date DESC
        LIMIT $2`
	var notes []models.BehaviorNote
	if err := r.db.SelectContext(ctx, &notes, query, studentID, limit); err != nil {
		return nil, fmt.Errorf("recent behavior notes: %w", err)
	}
	return notes, nil
}
