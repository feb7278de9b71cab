package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/eduhub-api/internal/models"
	"github.com/eduhub/eduhub-api/internal/repository"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
)

type mockStudentRepo struct {
	details map[string]*repository.StudentDetail
	parents []models.ParentContact
}

func (m *mockStudentRepo) FindDetail(ctx context.Context, id string) (*repository.StudentDetail, error) {
	detail, ok := m.details[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return detail, nil
}

func (m *mockStudentRepo) Parents(ctx context.Context, studentID string) ([]models.ParentContact, error) {
	return m.parents, nil
}

func (m *mockStudentRepo) Subjects(ctx context.Context, studentID string) ([]repository.EnrolledSubject, error) {
	return nil, nil
}

type mockProfileAttendance struct {
	history []models.AttendanceHistoryRow
}

func (m *mockProfileAttendance) RecentByStudent(ctx context.Context, studentID string, limit int) ([]models.AttendanceHistoryRow, error) {
	return m.history, nil
}

type mockProfileGrades struct {
	rows []models.StudentGradeRow
}

func (m *mockProfileGrades) ListByStudent(ctx context.Context, studentID string) ([]models.StudentGradeRow, error) {
	return m.rows, nil
}

type mockProfileBehavior struct {
	notes []models.BehaviorNote
}

func (m *mockProfileBehavior) RecentByStudent(ctx context.Context, studentID string, limit int) ([]models.BehaviorNote, error) {
	return m.notes, nil
}

func profileDetail() *repository.StudentDetail {
	return &repository.StudentDetail{
		StudentProfile: models.StudentProfile{ID: "s1", UserID: "u9", StudentNumber: "1001", GradeLevel: 7},
		FirstName:      "Ana",
		LastName:       "Diaz",
	}
}

func TestStudentProfileAggregates(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	students := &mockStudentRepo{
		details: map[string]*repository.StudentDetail{"s1": profileDetail()},
		parents: []models.ParentContact{{ID: "p1", Name: "Luz Diaz", Email: "luz@home.test"}},
	}
	attendance := &mockProfileAttendance{history: []models.AttendanceHistoryRow{
		{Date: day(9), Status: models.AttendanceAbsent, ClassName: "Algebra I"},
		{Date: day(6), Status: models.AttendanceLate, ClassName: "Biology"},
		{Date: day(5), Status: models.AttendancePresent, ClassName: "Algebra I"},
		{Date: day(4), Status: models.AttendancePresent, ClassName: "Biology"},
	}}
	grades := &mockProfileGrades{rows: []models.StudentGradeRow{
		{AssignmentID: "a1", Subject: "Math", Percentage: 80, GradedAt: day(3)},
		{AssignmentID: "a2", Subject: "Math", Percentage: 90, GradedAt: day(8)},
	}}
	behavior := &mockProfileBehavior{notes: []models.BehaviorNote{
		{ID: "n1", Type: models.BehaviorPositive, Title: "Helped a classmate", CreatedAt: day(7)},
	}}
	svc := NewStudentService(students, attendance, grades, behavior, nil, nil, nil, nil)

	profile, err := svc.Profile(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Diaz", profile.Name)
	assert.Equal(t, "1001", profile.StudentID)

	assert.Equal(t, 2, profile.Attendance.TotalPresent)
	assert.Equal(t, 1, profile.Attendance.TotalAbsent)
	assert.Equal(t, 1, profile.Attendance.TotalLate)
	// Streak calculation is unspecified upstream; it stays 0.
	assert.Equal(t, 0, profile.Attendance.LongestStreak)
	require.Len(t, profile.Attendance.RecentAbsences, 2)
	assert.Equal(t, "2026-03-09", profile.Attendance.RecentAbsences[0].Date)

	// Arithmetic mean of stored percentages, unlike the points-weighted
	// class gradebook.
	assert.InDelta(t, 85.0, profile.Grades.CurrentAverage, 0.001)
	require.Len(t, profile.Grades.BySubject, 1)
	assert.Equal(t, "Math", profile.Grades.BySubject[0].Subject)
	require.Len(t, profile.Grades.Trend, 2)
	assert.InDelta(t, 80.0, profile.Grades.Trend[0].Average, 0.001)

	require.Len(t, profile.Behavior, 1)
	assert.Equal(t, models.BehaviorPositive, profile.Behavior[0].Type)
	require.Len(t, profile.Parents, 1)
	assert.Equal(t, "luz@home.test", profile.Parents[0].Email)
}

func TestStudentProfileNoGrades(t *testing.T) {
	students := &mockStudentRepo{details: map[string]*repository.StudentDetail{"s1": profileDetail()}}
	svc := NewStudentService(students, &mockProfileAttendance{}, &mockProfileGrades{}, &mockProfileBehavior{}, nil, nil, nil, nil)

	profile, err := svc.Profile(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, float64(0), profile.Grades.CurrentAverage)
	assert.Empty(t, profile.Grades.BySubject)
	assert.Empty(t, profile.Grades.Trend)
}

func TestStudentProfileNotFound(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockProfileAttendance{}, &mockProfileGrades{}, &mockProfileBehavior{}, nil, nil, nil, nil)

	_, err := svc.Profile(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

type fakeConference struct {
	link   string
	topics []string
}

func (f *fakeConference) CreateMeeting(ctx context.Context, topic string, startsAt time.Time, durationMinutes int) (string, error) {
	f.topics = append(f.topics, topic)
	return f.link, nil
}

func TestScheduleConferenceInvitesParents(t *testing.T) {
	students := &mockStudentRepo{
		details: map[string]*repository.StudentDetail{"s1": profileDetail()},
		parents: []models.ParentContact{
			{ID: "p1", Name: "Luz Diaz", Email: "luz@home.test"},
			{ID: "p2", Name: "Rey Diaz", Email: "rey@home.test"},
		},
	}
	conference := &fakeConference{link: "https://meet.example.com/abc-defg"}
	mail := &recordingMailer{}
	svc := NewStudentService(students, &mockProfileAttendance{}, &mockProfileGrades{}, &mockProfileBehavior{}, conference, mail, validator.New(), nil)

	result, err := svc.ScheduleConference(context.Background(), "Sam Rivera", "s1", ScheduleConferenceRequest{
		ScheduledAt: "2026-09-10T15:30:00Z",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "https://meet.example.com/abc-defg", result.MeetingLink)
	assert.Equal(t, 30, result.DurationMinutes)
	assert.Equal(t, 2, result.ParentsNotified)

	require.Len(t, conference.topics, 1)
	assert.Equal(t, "Parent-Teacher Conference: Ana Diaz", conference.topics[0])
	require.Len(t, mail.sent, 2)
	assert.Equal(t, "luz@home.test", mail.sent[0].To)
	assert.Contains(t, mail.sent[0].HTML, "https://meet.example.com/abc-defg")
	assert.Contains(t, mail.sent[0].HTML, "Sam Rivera")
}

func TestScheduleConferenceWithoutProviderStillNotifies(t *testing.T) {
	students := &mockStudentRepo{
		details: map[string]*repository.StudentDetail{"s1": profileDetail()},
		parents: []models.ParentContact{{ID: "p1", Name: "Luz Diaz", Email: "luz@home.test"}},
	}
	mail := &recordingMailer{}
	svc := NewStudentService(students, &mockProfileAttendance{}, &mockProfileGrades{}, &mockProfileBehavior{}, nil, mail, validator.New(), nil)

	result, err := svc.ScheduleConference(context.Background(), "Sam Rivera", "s1", ScheduleConferenceRequest{
		ScheduledAt:     "2026-09-10T15:30:00Z",
		DurationMinutes: 45,
	})
	require.NoError(t, err)
	assert.Empty(t, result.MeetingLink)
	assert.Equal(t, 45, result.DurationMinutes)
	assert.Equal(t, 1, result.ParentsNotified)
	require.Len(t, mail.sent, 1)
	assert.NotContains(t, mail.sent[0].HTML, "Join the meeting")
}

func TestScheduleConferenceValidation(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockProfileAttendance{}, &mockProfileGrades{}, &mockProfileBehavior{}, nil, nil, validator.New(), nil)

	_, err := svc.ScheduleConference(context.Background(), "Sam Rivera", "s1", ScheduleConferenceRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.ScheduleConference(context.Background(), "Sam Rivera", "s1", ScheduleConferenceRequest{ScheduledAt: "tomorrow"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScheduleConferenceStudentNotFound(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockProfileAttendance{}, &mockProfileGrades{}, &mockProfileBehavior{}, nil, nil, validator.New(), nil)

	_, err := svc.ScheduleConference(context.Background(), "Sam Rivera", "ghost", ScheduleConferenceRequest{ScheduledAt: "2026-09-10T15:30:00Z"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
