package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/eduhub/eduhub-api/internal/dto"
	"github.com/eduhub/eduhub-api/internal/models"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
	"github.com/eduhub/eduhub-api/pkg/export"
)

type gradebookGradeRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.ClassGradeRow, error)
	AssignmentsForClass(ctx context.Context, classID string) ([]models.Assignment, error)
}

type gradebookCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// GradebookService computes the per-class gradebook aggregate.
type GradebookService struct {
	grades   gradebookGradeRepository
	roster   rosterResolver
	cache    gradebookCache
	cacheTTL time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewGradebookService constructs the gradebook service. Cache and metrics
// may be nil.
func NewGradebookService(grades gradebookGradeRepository, roster rosterResolver, cache gradebookCache, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *GradebookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &GradebookService{grades: grades, roster: roster, cache: cache, cacheTTL: cacheTTL, metrics: metrics, logger: logger}
}

// GradebookCacheKey names the cached gradebook for one class.
func GradebookCacheKey(classID string) string {
	return fmt.Sprintf("gradebook:%s", classID)
}

// Compute builds the gradebook for one class. A student's average is
// weighted by points: sum of scores over sum of max points, times 100.
// Averaging the per-assignment percentages instead would misweight
// assignments carrying different point values. A student with no graded
// work reports average 0, never null or NaN.
func (s *GradebookService) Compute(ctx context.Context, userID, classID string) (*dto.GradebookResponse, error) {
	teacher, err := resolveTeacher(ctx, s.roster, userID)
	if err != nil {
		return nil, err
	}
	if err := requireClassAccess(ctx, s.roster, teacher.ID, classID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached := &dto.GradebookResponse{}
		if err := s.cache.Get(ctx, GradebookCacheKey(classID), cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return cached, nil
		}
		s.metrics.RecordCacheLookup(false)
	}

	assignments, err := s.grades.AssignmentsForClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	students, err := s.roster.ListEnrolledStudents(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	gradeRows, err := s.grades.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}

	gradesByStudent := make(map[string][]models.ClassGradeRow, len(students))
	for _, row := range gradeRows {
		gradesByStudent[row.StudentID] = append(gradesByStudent[row.StudentID], row)
	}

	response := &dto.GradebookResponse{
		Assignments: make([]dto.GradebookAssignment, 0, len(assignments)),
		Students:    make([]dto.GradebookStudent, 0, len(students)),
	}
	for _, assignment := range assignments {
		response.Assignments = append(response.Assignments, dto.GradebookAssignment{
			ID:      assignment.ID,
			Title:   assignment.Title,
			DueDate: assignment.DueDate.UTC().Format(time.RFC3339),
			Points:  assignment.Points,
		})
	}
	for _, student := range students {
		rows := gradesByStudent[student.ID]
		entry := dto.GradebookStudent{
			ID:        student.ID,
			Name:      student.Name,
			StudentID: student.StudentNumber,
			Average:   weightedAverage(rows),
			Grades:    make([]dto.GradebookGrade, 0, len(rows)),
		}
		for _, row := range rows {
			entry.Grades = append(entry.Grades, dto.GradebookGrade{
				AssignmentID:    row.AssignmentID,
				AssignmentTitle: row.AssignmentTitle,
				Score:           row.Score,
				MaxPoints:       row.MaxPoints,
				Percentage:      row.Percentage,
			})
		}
		response.Students = append(response.Students, entry)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, GradebookCacheKey(classID), response, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache gradebook", zap.String("class_id", classID), zap.Error(err))
		}
	}
	return response, nil
}

// Export renders the gradebook as CSV or PDF.
func (s *GradebookService) Export(ctx context.Context, userID, classID, format string) ([]byte, string, error) {
	gradebook, err := s.Compute(ctx, userID, classID)
	if err != nil {
		return nil, "", err
	}

	sheet := export.Sheet{
		Title:   "Gradebook",
		Columns: []string{"Student", "Student ID", "Average"},
	}
	for _, assignment := range gradebook.Assignments {
		sheet.Columns = append(sheet.Columns, assignment.Title)
	}
	for _, student := range gradebook.Students {
		row := make([]string, 3, len(sheet.Columns))
		row[0] = student.Name
		row[1] = student.StudentID
		row[2] = fmt.Sprintf("%.2f", student.Average)
		cells := make(map[string]string, len(student.Grades))
		for _, grade := range student.Grades {
			cells[grade.AssignmentID] = fmt.Sprintf("%.1f/%.1f", grade.Score, grade.MaxPoints)
		}
		for _, assignment := range gradebook.Assignments {
			row = append(row, cells[assignment.ID])
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	switch format {
	case "pdf":
		payload, err := export.PDF(sheet, time.Now())
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	case "", "csv":
		payload, err := export.CSV(sheet)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// weightedAverage computes sum(score)/sum(maxPoints)*100, guarding the
// zero-grade case to exactly 0.
func weightedAverage(rows []models.ClassGradeRow) float64 {
	var totalScore, totalMax float64
	for _, row := range rows {
		totalScore += row.Score
		totalMax += row.MaxPoints
	}
	if totalMax <= 0 {
		return 0
	}
	return roundGrade(totalScore / totalMax * 100)
}

func roundGrade(v float64) float64 {
	return math.Round(v*100) / 100
}
