package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/eduhub/eduhub-api/internal/models"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
)

type rosterResolver interface {
	TeacherByUserID(ctx context.Context, userID string) (*models.TeacherProfile, error)
	ListClassesByTeacher(ctx context.Context, teacherID string) ([]models.Class, error)
	IsAuthorized(ctx context.Context, teacherID, classID string) (bool, error)
	AuthorizedCount(ctx context.Context, teacherID string, classIDs []string) (int, error)
	ListEnrolledStudents(ctx context.Context, classID string) ([]models.RosterStudent, error)
}

// ClassService exposes the classes a teacher is authorized to act on.
type ClassService struct {
	roster rosterResolver
	logger *zap.Logger
}

// NewClassService constructs the class service.
func NewClassService(roster rosterResolver, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{roster: roster, logger: logger}
}

// TeacherClasses lists the classes the authenticated teacher appears on.
func (s *ClassService) TeacherClasses(ctx context.Context, userID string) ([]models.Class, error) {
	teacher, err := resolveTeacher(ctx, s.roster, userID)
	if err != nil {
		return nil, err
	}
	classes, err := s.roster.ListClassesByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// resolveTeacher maps a user account to its teacher profile, 404 when the
// account has no profile.
func resolveTeacher(ctx context.Context, roster rosterResolver, userID string) (*models.TeacherProfile, error) {
	teacher, err := roster.TeacherByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}
	return teacher, nil
}

// requireClassAccess enforces the one access-control invariant: a teacher
// may only act on a class where they appear in its teacher list.
func requireClassAccess(ctx context.Context, roster rosterResolver, teacherID, classID string) error {
	authorized, err := roster.IsAuthorized(ctx, teacherID, classID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class access")
	}
	if !authorized {
		return appErrors.Clone(appErrors.ErrForbidden, "access denied")
	}
	return nil
}
