package dto

import "github.com/eduhub/eduhub-api/internal/models"

// StudentProfileResponse aggregates attendance, grades, behavior and
// parent contacts for the teacher-facing student view.
type StudentProfileResponse struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	StudentID  string                 `json:"studentId"`
	GradeLevel int                    `json:"gradeLevel"`
	Homeroom   *string                `json:"homeroom"`
	Avatar     *string                `json:"avatar"`
	Attendance ProfileAttendanceStats `json:"attendance"`
	Grades     ProfileGradeStats      `json:"grades"`
	Behavior   []ProfileBehaviorNote  `json:"behavior"`
	Parents    []models.ParentContact `json:"parents"`
}

// ProfileAttendanceStats summarises recent attendance.
type ProfileAttendanceStats struct {
	TotalPresent   int              `json:"totalPresent"`
	TotalAbsent    int              `json:"totalAbsent"`
	TotalLate      int              `json:"totalLate"`
	LongestStreak  int              `json:"longestStreak"`
	RecentAbsences []ProfileAbsence `json:"recentAbsences"`
}

// ProfileAbsence is one recent absence or late arrival.
type ProfileAbsence struct {
	Date   string                  `json:"date"`
	Status models.AttendanceStatus `json:"status"`
	Class  string                  `json:"class"`
}

// ProfileGradeStats summarises grade performance.
type ProfileGradeStats struct {
	CurrentAverage float64               `json:"currentAverage"`
	Trend          []ProfileTrendPoint   `json:"trend"`
	BySubject      []ProfileSubjectGrade `json:"bySubject"`
}

// ProfileTrendPoint is one point on the grade trend line.
type ProfileTrendPoint struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
}

// ProfileSubjectGrade is the average per enrolled subject.
type ProfileSubjectGrade struct {
	Subject string  `json:"subject"`
	Average float64 `json:"average"`
}

// ProfileBehaviorNote is one recent behavior note.
type ProfileBehaviorNote struct {
	ID    string                  `json:"id"`
	Type  models.BehaviorNoteType `json:"type"`
	Title string                  `json:"title"`
	Date  string                  `json:"date"`
}

// ScheduleConferenceResponse reports a scheduled parent-teacher
// conference and how many parents were invited.
type ScheduleConferenceResponse struct {
	Success         bool   `json:"success"`
	MeetingLink     string `json:"meetingLink,omitempty"`
	ScheduledAt     string `json:"scheduledAt"`
	DurationMinutes int    `json:"durationMinutes"`
	ParentsNotified int    `json:"parentsNotified"`
}
