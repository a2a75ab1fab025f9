package dto

import "time"

// ── class sessions ──

// CreateSessionRequest opens an attendance window.
type CreateSessionRequest struct {
	UnitCode string    `json:"unit_code" binding:"required"`
	UnitName string    `json:"unit_name" binding:"required"`
	Location string    `json:"location"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at"   binding:"required"`
}

// SessionResponse is the public view of a class session.
type SessionResponse struct {
	SessionID    string    `json:"session_id"`
	LecturerID   string    `json:"lecturer_id"`
	LecturerName string    `json:"lecturer_name,omitempty"`
	UnitCode     string    `json:"unit_code"`
	UnitName     string    `json:"unit_name"`
	Location     string    `json:"location"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	IsOpen       bool      `json:"is_open"`
}

// ── attendance records ──

// AttendanceRecordResponse is one student's mark for a session.
type AttendanceRecordResponse struct {
	RecordID        string    `json:"record_id"`
	SessionID       string    `json:"session_id"`
	StudentID       string    `json:"student_id"`
	StudentName     string    `json:"student_name,omitempty"`
	AdmissionNumber string    `json:"admission_number,omitempty"`
	MarkedAt        time.Time `json:"marked_at"`
	Status          string    `json:"status"`
}
