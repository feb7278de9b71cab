package models

import "time"

// RecipientType names the selector used when addressing a message.
type RecipientType string

const (
	RecipientUser  RecipientType = "user"
	RecipientClass RecipientType = "class"
	RecipientGrade RecipientType = "grade"
)

// Valid returns true when the type is a supported value.
func (t RecipientType) Valid() bool {
	switch t {
	case RecipientUser, RecipientClass, RecipientGrade:
		return true
	default:
		return false
	}
}

// Message is a persisted outbound communication.
type Message struct {
	ID          string    `db:"id" json:"id"`
	SenderID    string    `db:"sender_id" json:"sender_id"`
	Subject     string    `db:"subject" json:"subject"`
	Body        string    `db:"body" json:"body"`
	IsEmail     bool      `db:"is_email" json:"is_email"`
	IsEmergency bool      `db:"is_emergency" json:"is_emergency"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// MessageRecipient records the original selector a message was addressed
// with, not the resolved email list. Auditing re-resolves the selector.
type MessageRecipient struct {
	ID          string        `db:"id" json:"id"`
	MessageID   string        `db:"message_id" json:"message_id"`
	Type        RecipientType `db:"recipient_type" json:"recipient_type"`
	RecipientID string        `db:"recipient_id" json:"recipient_id"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}
