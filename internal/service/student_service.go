package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduhub/eduhub-api/internal/dto"
	"github.com/eduhub/eduhub-api/internal/integration"
	"github.com/eduhub/eduhub-api/internal/models"
	"github.com/eduhub/eduhub-api/internal/repository"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
	"github.com/eduhub/eduhub-api/pkg/mailer"
)

type studentProfileRepository interface {
	FindDetail(ctx context.Context, id string) (*repository.StudentDetail, error)
	Parents(ctx context.Context, studentID string) ([]models.ParentContact, error)
	Subjects(ctx context.Context, studentID string) ([]repository.EnrolledSubject, error)
}

type profileAttendanceRepository interface {
	RecentByStudent(ctx context.Context, studentID string, limit int) ([]models.AttendanceHistoryRow, error)
}

type profileGradeRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentGradeRow, error)
}

type profileBehaviorRepository interface {
	RecentByStudent(ctx context.Context, studentID string, limit int) ([]models.BehaviorNote, error)
}

// StudentService assembles the teacher-facing student profile view and
// schedules parent-teacher conferences.
type StudentService struct {
	students   studentProfileRepository
	attendance profileAttendanceRepository
	grades     profileGradeRepository
	behavior   profileBehaviorRepository
	conference integration.ConferenceProvider
	mail       mailer.Mailer
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewStudentService constructs the student profile service. Conference
// and mail may be nil; scheduling then records nothing and notifies
// nobody but still validates.
func NewStudentService(students studentProfileRepository, attendance profileAttendanceRepository, grades profileGradeRepository, behavior profileBehaviorRepository, conference integration.ConferenceProvider, mail mailer.Mailer, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		students:   students,
		attendance: attendance,
		grades:     grades,
		behavior:   behavior,
		conference: conference,
		mail:       mail,
		validate:   validate,
		logger:     logger,
	}
}

// Profile aggregates attendance stats, grade summary, behavior notes and
// parent contacts for one student. The overall and per-subject averages
// are arithmetic means of the stored grade percentages; the class
// gradebook view weights by points instead, so the two can disagree for
// the same student.
func (s *StudentService) Profile(ctx context.Context, studentID string) (*dto.StudentProfileResponse, error) {
	detail, err := s.students.FindDetail(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	history, err := s.attendance.RecentByStudent(ctx, studentID, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance history")
	}
	gradeRows, err := s.grades.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}
	notes, err := s.behavior.RecentByStudent(ctx, studentID, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load behavior notes")
	}
	parents, err := s.students.Parents(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent contacts")
	}

	resp := &dto.StudentProfileResponse{
		ID:         detail.ID,
		Name:       detail.FirstName + " " + detail.LastName,
		StudentID:  detail.StudentNumber,
		GradeLevel: detail.GradeLevel,
		Homeroom:   detail.Homeroom,
		Avatar:     detail.Avatar,
		Attendance: buildAttendanceStats(history),
		Grades:     buildGradeStats(gradeRows),
		Behavior:   buildBehaviorNotes(notes),
		Parents:    parents,
	}
	return resp, nil
}

// ScheduleConferenceRequest asks for a parent-teacher conference slot.
type ScheduleConferenceRequest struct {
	ScheduledAt     string `json:"scheduledAt" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"omitempty,gt=0"`
}

// ScheduleConference creates a video meeting for a parent-teacher
// conference and emails every linked parent an invitation. A missing
// meeting link (conferencing disabled) still notifies parents; the
// invitation just carries no join URL.
func (s *StudentService) ScheduleConference(ctx context.Context, teacherName, studentID string, req ScheduleConferenceRequest) (*dto.ScheduleConferenceResponse, error) {
	if s.validate != nil {
		if err := s.validate.Struct(req); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
	}
	startsAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scheduledAt must be RFC3339")
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = 30
	}

	detail, err := s.students.FindDetail(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	parents, err := s.students.Parents(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent contacts")
	}

	studentName := detail.FirstName + " " + detail.LastName
	var link string
	if s.conference != nil {
		link, err = s.conference.CreateMeeting(ctx, "Parent-Teacher Conference: "+studentName, startsAt, duration)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create meeting")
		}
	}

	notified := 0
	for _, parent := range parents {
		if s.mail == nil || parent.Email == "" {
			continue
		}
		email := mailer.Email{
			To:      parent.Email,
			Subject: "Parent-Teacher Conference: " + studentName,
			HTML:    renderConferenceHTML(teacherName, studentName, link, startsAt, duration),
		}
		if err := s.mail.Send(ctx, email); err != nil {
			s.logger.Warn("conference invitation failed",
				zap.String("student_id", studentID),
				zap.String("to", parent.Email),
				zap.Error(err),
			)
			continue
		}
		notified++
	}

	return &dto.ScheduleConferenceResponse{
		Success:         true,
		MeetingLink:     link,
		ScheduledAt:     startsAt.Format(time.RFC3339),
		DurationMinutes: duration,
		ParentsNotified: notified,
	}, nil
}

func renderConferenceHTML(teacherName, studentName, link string, startsAt time.Time, duration int) string {
	body := fmt.Sprintf("<p>A parent-teacher conference about <strong>%s</strong> with %s has been scheduled for %s (%d minutes).</p>",
		html.EscapeString(studentName),
		html.EscapeString(teacherName),
		startsAt.Format("Monday, Jan 2 2006 at 15:04 MST"),
		duration,
	)
	if link != "" {
		body += fmt.Sprintf(`<p><a href="%s">Join the meeting</a></p>`, link)
	}
	return body + `<p style="color:#888;font-size:12px;">Sent via EduHub</p>`
}

func buildAttendanceStats(history []models.AttendanceHistoryRow) dto.ProfileAttendanceStats {
	// LongestStreak stays 0: the streak calculation was never specified
	// upstream and guessing an algorithm here would bake in semantics no
	// client has agreed to.
	stats := dto.ProfileAttendanceStats{RecentAbsences: []dto.ProfileAbsence{}}
	for _, row := range history {
		switch row.Status {
		case models.AttendancePresent:
			stats.TotalPresent++
		case models.AttendanceAbsent:
			stats.TotalAbsent++
		case models.AttendanceLate:
			stats.TotalLate++
		}
		if row.Status == models.AttendanceAbsent || row.Status == models.AttendanceLate {
			if len(stats.RecentAbsences) < 10 {
				stats.RecentAbsences = append(stats.RecentAbsences, dto.ProfileAbsence{
					Date:   row.Date.Format("2006-01-02"),
					Status: row.Status,
					Class:  row.ClassName,
				})
			}
		}
	}
	return stats
}

func buildGradeStats(rows []models.StudentGradeRow) dto.ProfileGradeStats {
	stats := dto.ProfileGradeStats{
		Trend:     []dto.ProfileTrendPoint{},
		BySubject: []dto.ProfileSubjectGrade{},
	}
	if len(rows) == 0 {
		return stats
	}

	var total float64
	subjectTotals := make(map[string]float64)
	subjectCounts := make(map[string]int)
	var subjectOrder []string

	for _, row := range rows {
		total += row.Percentage

		if _, ok := subjectCounts[row.Subject]; !ok {
			subjectOrder = append(subjectOrder, row.Subject)
		}
		subjectTotals[row.Subject] += row.Percentage
		subjectCounts[row.Subject]++

		if len(stats.Trend) < 10 {
			stats.Trend = append(stats.Trend, dto.ProfileTrendPoint{
				Date:    row.GradedAt.Format(time.RFC3339),
				Average: row.Percentage,
			})
		}
	}

	stats.CurrentAverage = roundGrade(total / float64(len(rows)))
	for _, subject := range subjectOrder {
		stats.BySubject = append(stats.BySubject, dto.ProfileSubjectGrade{
			Subject: subject,
			Average: roundGrade(subjectTotals[subject] / float64(subjectCounts[subject])),
		})
	}
	return stats
}

func buildBehaviorNotes(notes []models.BehaviorNote) []dto.ProfileBehaviorNote {
	out := make([]dto.ProfileBehaviorNote, 0, len(notes))
	for _, note := range notes {
		out = append(out, dto.ProfileBehaviorNote{
			ID:    note.ID,
			Type:  note.Type,
			Title: note.Title,
			Date:  note.CreatedAt.Format("2006-01-02"),
		})
	}
	return out
}
