package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduhub/eduhub-api/internal/dto"
	"github.com/eduhub/eduhub-api/internal/models"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
)

type attendanceRepository interface {
	Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	ForClassDate(ctx context.Context, classID string, date time.Time, period *int) ([]models.AttendanceRecord, error)
}

// AttendanceService coordinates attendance reads and batched upserts.
type AttendanceService struct {
	repo      attendanceRepository
	roster    rosterResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, roster rosterResolver, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AttendanceService{repo: repo, roster: roster, validator: validate, logger: logger}
	svc.validator.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(strings.ToUpper(fl.Field().String())).Valid()
	})
	return svc
}

// AttendanceItem is one (student, status) pair in a batch.
type AttendanceItem struct {
	StudentID string `json:"studentId" validate:"required"`
	Status    string `json:"status" validate:"required,attendance_status"`
}

// SaveAttendanceRequest marks a class roster for one date and period.
type SaveAttendanceRequest struct {
	ClassID    string           `json:"classId" validate:"required"`
	Date       string           `json:"date" validate:"required"`
	Period     *int             `json:"period"`
	Attendance []AttendanceItem `json:"attendance" validate:"required,min=1,dive"`
}

// Sheet returns every enrolled student with the single record matching
// (classId, date, period), or a null status when unmarked.
func (s *AttendanceService) Sheet(ctx context.Context, userID, classID string, date time.Time, period *int) (*dto.AttendanceSheetResponse, error) {
	teacher, err := resolveTeacher(ctx, s.roster, userID)
	if err != nil {
		return nil, err
	}
	if err := requireClassAccess(ctx, s.roster, teacher.ID, classID); err != nil {
		return nil, err
	}

	students, err := s.roster.ListEnrolledStudents(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	records, err := s.repo.ForClassDate(ctx, classID, date, period)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	byStudent := make(map[string]models.AttendanceStatus, len(records))
	for _, record := range records {
		byStudent[record.StudentID] = record.Status
	}

	rows := make([]dto.AttendanceSheetRow, 0, len(students))
	for _, student := range students {
		row := dto.AttendanceSheetRow{
			ID:        student.ID,
			Name:      student.Name,
			StudentID: student.StudentNumber,
		}
		if status, ok := byStudent[student.ID]; ok {
			row.CurrentStatus = &status
		}
		rows = append(rows, row)
	}
	return &dto.AttendanceSheetResponse{Students: rows}, nil
}

// Save applies each student's upsert independently: one student's failure
// does not roll back the others, and the response counts successes only.
func (s *AttendanceService) Save(ctx context.Context, userID string, req SaveAttendanceRequest) (*dto.SaveAttendanceResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	date, err := parseDay(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}

	teacher, err := resolveTeacher(ctx, s.roster, userID)
	if err != nil {
		return nil, err
	}
	if err := requireClassAccess(ctx, s.roster, teacher.ID, req.ClassID); err != nil {
		return nil, err
	}

	count := 0
	for _, item := range req.Attendance {
		record := &models.AttendanceRecord{
			ClassID:   req.ClassID,
			StudentID: item.StudentID,
			Date:      date,
			Period:    req.Period,
			Status:    models.AttendanceStatus(strings.ToUpper(item.Status)),
			MarkedBy:  teacher.ID,
		}
		if _, err := s.repo.Upsert(ctx, record); err != nil {
			s.logger.Warn("attendance upsert failed",
				zap.String("class_id", req.ClassID),
				zap.String("student_id", item.StudentID),
				zap.Error(err),
			)
			continue
		}
		count++
	}

	return &dto.SaveAttendanceResponse{Success: true, Count: count}, nil
}

// parseDay accepts a date or datetime string and truncates it to its day.
func parseDay(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date")
}
