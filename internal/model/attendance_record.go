package model

import "time"

// AttendanceRecord is one student's mark for one class session.
// The (session_id, student_id) pair is unique: marking twice is a conflict.
type AttendanceRecord struct {
	RecordID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"record_id"`
	SessionID string    `gorm:"type:uuid;not null;uniqueIndex:uq_session_student"   json:"session_id"`
	StudentID string    `gorm:"type:uuid;not null;uniqueIndex:uq_session_student"   json:"student_id"`
	MarkedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                  json:"marked_at"`
	Status    string    `gorm:"type:varchar(20);not null;default:'present'"         json:"status"`

	Session *ClassSession `gorm:"foreignKey:SessionID;references:SessionID" json:"session,omitempty"`
	Student *Profile      `gorm:"foreignKey:StudentID;references:ID"        json:"student,omitempty"`
}

// TableName sets the table name.
func (AttendanceRecord) TableName() string { return "attendance_records" }
