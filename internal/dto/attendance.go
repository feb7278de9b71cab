package dto

import "github.com/eduhub/eduhub-api/internal/models"

// AttendanceSheetResponse lists every enrolled student with their status
// for one (class, date, period) key, null when unmarked.
type AttendanceSheetResponse struct {
	Students []AttendanceSheetRow `json:"students"`
}

// AttendanceSheetRow is one student on the attendance sheet.
type AttendanceSheetRow struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	StudentID     string                   `json:"studentId"`
	CurrentStatus *models.AttendanceStatus `json:"currentStatus"`
}

// SaveAttendanceResponse reports how many upserts succeeded.
type SaveAttendanceResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}
