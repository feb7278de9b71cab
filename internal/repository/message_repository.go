package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduhub/eduhub-api/internal/models"
)

// MessageRepository persists messages with their original recipient
// selectors and resolves class audiences to email addresses.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// CreateWithRecipients inserts the message row plus one recipient row per
// original selector id in a single transaction. Recipients record the
// selector, not the resolved email list.
func (r *MessageRepository) CreateWithRecipients(ctx context.Context, message *models.Message, recipientType models.RecipientType, recipientIDs []string) error {
	now := time.Now().UTC()
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	message.CreatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create message: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			tx.Rollback() //nolint:errcheck
		}
	}()

	const insertMessage = `INSERT INTO messages (id, sender_id, subject, body, is_email, is_emergency, created_at)
        VALUES (:id, :sender_id, :subject, :body, :is_email, :is_emergency, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insertMessage, message); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	const insertRecipient = `INSERT INTO message_recipients (id, message_id, recipient_type, recipient_id, created_at)
        VALUES ($1, $2, $3, $4, $5)`
	for _, recipientID := range recipientIDs {
		if _, err := tx.ExecContext(ctx, insertRecipient, uuid.NewString(), message.ID, recipientType, recipientID, now); err != nil {
			return fmt.Errorf("insert message recipient %s: %w", recipientID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create message: %w", err)
	}
	commit = true
	return nil
}

// ClassAudienceEmails enumerates, for every given class, each enrolled
// student's email and every linked parent's email. Duplicates are
// returned as-is; the caller dedups the final set.
func (r *MessageRepository) ClassAudienceEmails(ctx context.Context, classIDs []string) ([]string, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT u.email
        FROM class_enrollments ce
        JOIN student_profiles sp ON sp.id = ce.student_id
        JOIN users u ON u.id = sp.user_id
        WHERE ce.class_id IN (?)
        UNION ALL
        SELECT pu.email
        FROM class_enrollments ce
        JOIN parent_students ps ON ps.student_id = ce.student_id
        JOIN parent_profiles pp ON pp.id = ps.parent_id
        JOIN users pu ON pu.id = pp.user_id
        WHERE ce.class_id IN (?)`, classIDs, classIDs)
	if err != nil {
		return nil, fmt.Errorf("build class audience query: %w", err)
	}
	query = r.db.Rebind(query)
	var emails []string
	if err := r.db.SelectContext(ctx, &emails, query, args...); err != nil {
		return nil, fmt.Errorf("resolve class audience: %w", err)
	}
	return emails, nil
}
