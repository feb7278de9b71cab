package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/eduhub/eduhub-api/internal/models"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
)

type directoryRepository interface {
	ListDirectory(ctx context.Context) ([]models.DirectoryEntry, error)
}

// UserService serves the recipient directory used when composing
// messages.
type UserService struct {
	repo   directoryRepository
	logger *zap.Logger
}

// NewUserService constructs the user service.
func NewUserService(repo directoryRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, logger: logger}
}

// Directory lists active teachers, parents and students addressable as
// message recipients.
func (s *UserService) Directory(ctx context.Context) ([]models.DirectoryEntry, error) {
	entries, err := s.repo.ListDirectory(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	if entries == nil {
		entries = []models.DirectoryEntry{}
	}
	return entries, nil
}
