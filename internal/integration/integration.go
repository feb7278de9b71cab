// Package integration holds the outbound connectors to third-party
// classroom and conferencing platforms. The default implementations are
// no-ops so the API runs without any external accounts configured.
package integration

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ClassroomProvider mirrors published assignments to an external
// classroom platform. Push failures never fail the originating request.
type ClassroomProvider interface {
	PushAssignment(ctx context.Context, assignmentID string, classIDs []string) error
}

// ConferenceProvider creates video meeting links, Zoom or Meet style.
type ConferenceProvider interface {
	CreateMeeting(ctx context.Context, topic string, startsAt time.Time, durationMinutes int) (joinURL string, err error)
}

// NoopClassroom logs pushes instead of performing them.
type NoopClassroom struct {
	logger *zap.Logger
}

// NewNoopClassroom returns a classroom provider that only logs.
func NewNoopClassroom(logger *zap.Logger) *NoopClassroom {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopClassroom{logger: logger}
}

func (c *NoopClassroom) PushAssignment(ctx context.Context, assignmentID string, classIDs []string) error {
	c.logger.Debug("classroom sync disabled, skipping push",
		zap.String("assignment_id", assignmentID),
		zap.Int("classes", len(classIDs)),
	)
	return nil
}

// NoopConference returns empty meeting links.
type NoopConference struct {
	logger *zap.Logger
}

// NewNoopConference returns a conference provider that only logs.
func NewNoopConference(logger *zap.Logger) *NoopConference {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopConference{logger: logger}
}

func (c *NoopConference) CreateMeeting(ctx context.Context, topic string, startsAt time.Time, durationMinutes int) (string, error) {
	c.logger.Debug("conferencing disabled, no meeting link created",
		zap.String("topic", topic),
		zap.Time("starts_at", startsAt),
		zap.Int("duration_minutes", durationMinutes),
	)
	return "", nil
}
