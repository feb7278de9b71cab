package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduhub/eduhub-api/internal/integration"
	"github.com/eduhub/eduhub-api/internal/models"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
)

type assignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment, classIDs []string) error
	MaterializeStudents(ctx context.Context, assignmentID, classID string) (int, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Assignment, error)
	ClassLinks(ctx context.Context, assignmentIDs []string) (map[string][]models.AssignmentClassLink, error)
}

type gradebookInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AssignmentService creates assignments shared across classes and
// materializes the per-student fan-out.
type AssignmentService struct {
	repo      assignmentRepository
	roster    rosterResolver
	cache     gradebookInvalidator
	classroom integration.ClassroomProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs the assignment service. Cache and
// classroom may be nil.
func NewAssignmentService(repo assignmentRepository, roster rosterResolver, cache gradebookInvalidator, classroom integration.ClassroomProvider, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AssignmentService{repo: repo, roster: roster, cache: cache, classroom: classroom, validator: validate, logger: logger}
	svc.validator.RegisterValidation("assignment_type", func(fl validator.FieldLevel) bool {
		return models.AssignmentType(strings.ToUpper(fl.Field().String())).Valid()
	})
	return svc
}

// CreateAssignmentRequest is the creation payload.
type CreateAssignmentRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description"`
	Type        string   `json:"type" validate:"required,assignment_type"`
	DueDate     string   `json:"dueDate" validate:"required"`
	Points      float64  `json:"points" validate:"required,gt=0"`
	ClassIDs    []string `json:"classIds" validate:"required,min=1,dive,required"`
}

// Create fails the whole operation with Forbidden when the teacher lacks
// access to any requested class; no rows are created for the authorized
// subset. On success one assignment links to all classes and one stub per
// enrolled student is materialized, skipping duplicates so a retry after
// a transient failure does not duplicate stubs.
func (s *AssignmentService) Create(ctx context.Context, userID string, req CreateAssignmentRequest) (*models.AssignmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid due date")
	}

	teacher, err := resolveTeacher(ctx, s.roster, userID)
	if err != nil {
		return nil, err
	}

	authorized, err := s.roster.AuthorizedCount(ctx, teacher.ID, req.ClassIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class access")
	}
	if authorized != len(req.ClassIDs) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you do not have access to one or more selected classes")
	}

	assignment := &models.Assignment{
		TeacherID:   teacher.ID,
		Title:       req.Title,
		Description: req.Description,
		Type:        models.AssignmentType(strings.ToUpper(req.Type)),
		DueDate:     dueDate.UTC(),
		Points:      req.Points,
		IsPublished: true,
	}
	if err := s.repo.Create(ctx, assignment, req.ClassIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}

	for _, classID := range req.ClassIDs {
		created, err := s.repo.MaterializeStudents(ctx, assignment.ID, classID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to materialize student assignments")
		}
		s.logger.Debug("materialized student assignments",
			zap.String("assignment_id", assignment.ID),
			zap.String("class_id", classID),
			zap.Int("created", created),
		)
	}

	if s.cache != nil {
		for _, classID := range req.ClassIDs {
			if err := s.cache.DeleteByPattern(ctx, GradebookCacheKey(classID)); err != nil {
				s.logger.Warn("failed to invalidate gradebook cache", zap.String("class_id", classID), zap.Error(err))
			}
		}
	}

	if s.classroom != nil && assignment.IsPublished {
		if err := s.classroom.PushAssignment(ctx, assignment.ID, req.ClassIDs); err != nil {
			s.logger.Warn("classroom push failed", zap.String("assignment_id", assignment.ID), zap.Error(err))
		}
	}

	links, err := s.repo.ClassLinks(ctx, []string{assignment.ID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class links")
	}
	return &models.AssignmentDetail{Assignment: *assignment, Classes: links[assignment.ID]}, nil
}

// List returns the teacher's assignments with their class links.
func (s *AssignmentService) List(ctx context.Context, userID string) ([]models.AssignmentDetail, error) {
	teacher, err := resolveTeacher(ctx, s.roster, userID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.repo.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	ids := make([]string, len(assignments))
	for i, assignment := range assignments {
		ids[i] = assignment.ID
	}
	links, err := s.repo.ClassLinks(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class links")
	}
	details := make([]models.AssignmentDetail, len(assignments))
	for i, assignment := range assignments {
		details[i] = models.AssignmentDetail{Assignment: assignment, Classes: links[assignment.ID]}
	}
	return details, nil
}
