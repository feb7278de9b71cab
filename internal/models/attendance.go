package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendancePresent    AttendanceStatus = "PRESENT"
	AttendanceAbsent     AttendanceStatus = "ABSENT"
	AttendanceLate       AttendanceStatus = "LATE"
	AttendancePartialDay AttendanceStatus = "PARTIAL_DAY"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendancePartialDay:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one status per (class, student, date, period) key.
// A later write for the same key overwrites the prior value.
type AttendanceRecord struct {
	ID        string           `db:"id" json:"id"`
	ClassID   string           `db:"class_id" json:"class_id"`
	StudentID string           `db:"student_id" json:"student_id"`
	Date      time.Time        `db:"date" json:"date"`
	Period    *int             `db:"period" json:"period,omitempty"`
	Status    AttendanceStatus `db:"status" json:"status"`
	MarkedBy  string           `db:"marked_by" json:"marked_by"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceHistoryRow is a record joined with its class for profile views.
type AttendanceHistoryRow struct {
	Date      time.Time        `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	ClassName string           `db:"class_name" json:"class_name"`
}
