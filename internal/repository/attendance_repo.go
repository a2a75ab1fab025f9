package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/model"
)

// AttendanceRepository is the attendance record data access interface.
type AttendanceRepository interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	GetBySessionAndStudent(ctx context.Context, sessionID, studentID string) (*model.AttendanceRecord, error)
	ListBySession(ctx context.Context, sessionID string) ([]model.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.AttendanceRecord, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates an AttendanceRepository instance.
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepo) GetBySessionAndStudent(ctx context.Context, sessionID, studentID string) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND student_id = ?", sessionID, studentID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepo) ListBySession(ctx context.Context, sessionID string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("session_id = ?", sessionID).
		Order("marked_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepo) ListByStudent(ctx context.Context, studentID string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Session").
		Where("student_id = ?", studentID).
		Order("marked_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
