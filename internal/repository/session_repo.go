package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/model"
)

// SessionRepository is the class session data access interface.
type SessionRepository interface {
	Create(ctx context.Context, session *model.ClassSession) error
	GetByID(ctx context.Context, id string) (*model.ClassSession, error)
	ListByLecturer(ctx context.Context, lecturerID string) ([]model.ClassSession, error)
	ListOpen(ctx context.Context) ([]model.ClassSession, error)
	Update(ctx context.Context, session *model.ClassSession) error
}

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo creates a SessionRepository instance.
func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.ClassSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.ClassSession, error) {
	var session model.ClassSession
	err := r.db.WithContext(ctx).
		Preload("Lecturer").
		Where("session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) ListByLecturer(ctx context.Context, lecturerID string) ([]model.ClassSession, error) {
	var sessions []model.ClassSession
	err := r.db.WithContext(ctx).
		Where("lecturer_id = ?", lecturerID).
		Order("starts_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) ListOpen(ctx context.Context) ([]model.ClassSession, error) {
	var sessions []model.ClassSession
	err := r.db.WithContext(ctx).
		Preload("Lecturer").
		Where("is_open = ?", true).
		Order("starts_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *model.ClassSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}
