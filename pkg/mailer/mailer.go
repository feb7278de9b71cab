package mailer

import "context"

// Email is a single outbound message addressed to one recipient.
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a single email. Implementations must be safe for
// concurrent use; the messaging fan-out sends all addresses in parallel.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
