package repository

import "gorm.io/gorm"

// Repository aggregates all repository interfaces.
type Repository struct {
	Profile    ProfileRepository
	Identity   IdentityRepository
	Session    SessionRepository
	Attendance AttendanceRepository
}

// NewRepository creates the repository aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Profile:    NewProfileRepo(db),
		Identity:   NewIdentityRepo(db),
		Session:    NewSessionRepo(db),
		Attendance: NewAttendanceRepo(db),
	}
}
