package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/model"
)

// IdentityRepository is the authentication account data access interface.
type IdentityRepository interface {
	Create(ctx context.Context, identity *model.Identity) error
	GetByID(ctx context.Context, id string) (*model.Identity, error)
	GetByEmail(ctx context.Context, email string) (*model.Identity, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type identityRepo struct {
	db *gorm.DB
}

// NewIdentityRepo creates an IdentityRepository instance.
func NewIdentityRepo(db *gorm.DB) IdentityRepository {
	return &identityRepo{db: db}
}

func (r *identityRepo) Create(ctx context.Context, identity *model.Identity) error {
	return r.db.WithContext(ctx).Create(identity).Error
}

func (r *identityRepo) GetByID(ctx context.Context, id string) (*model.Identity, error) {
	var identity model.Identity
	err := r.db.WithContext(ctx).
		Where("identity_id = ?", id).
		First(&identity).Error
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepo) GetByEmail(ctx context.Context, email string) (*model.Identity, error) {
	var identity model.Identity
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&identity).Error
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.Identity{}).
		Where("identity_id = ?", id).
		Update("password_hash", passwordHash).Error
}
