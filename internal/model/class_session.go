package model

import "time"

// ClassSession is an attendance window opened by a lecturer.
// Students can mark attendance while the session is open and the
// current time falls between StartsAt and EndsAt.
type ClassSession struct {
	SessionID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	LecturerID string    `gorm:"type:uuid;not null"                             json:"lecturer_id"`
	UnitCode   string    `gorm:"type:varchar(20);not null"                      json:"unit_code"`
	UnitName   string    `gorm:"type:varchar(100);not null"                     json:"unit_name"`
	Location   string    `gorm:"type:varchar(100);not null;default:''"          json:"location"`
	StartsAt   time.Time `gorm:"not null"                                       json:"starts_at"`
	EndsAt     time.Time `gorm:"not null"                                       json:"ends_at"`
	IsOpen     bool      `gorm:"not null;default:true"                          json:"is_open"`
	BaseModel

	Lecturer *Profile `gorm:"foreignKey:LecturerID;references:ID" json:"lecturer,omitempty"`
}

// TableName sets the table name.
func (ClassSession) TableName() string { return "class_sessions" }
