package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/model"
)

// ProfileListFilters narrows the profile list query.
type ProfileListFilters struct {
	Role     model.Role
	Unlinked bool
	Keyword  string
}

// ProfileRepository is the profile data access interface.
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*model.Profile, error)
	// ListUnlinked returns every profile whose user_id is NULL, in
	// creation order. This is the bulk provisioning fetch.
	ListUnlinked(ctx context.Context) ([]model.Profile, error)
	List(ctx context.Context, filters *ProfileListFilters, offset, limit int) ([]model.Profile, int64, error)
	Update(ctx context.Context, profile *model.Profile) error
	// LinkIdentity sets user_id and force_password_change in one
	// partial update, leaving other columns untouched.
	LinkIdentity(ctx context.Context, profileID, identityID string) error
	// SetForcePasswordChange flips only the gating flag.
	SetForcePasswordChange(ctx context.Context, profileID string, force bool) error
}

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo creates a ProfileRepository instance.
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Where("admission_number = ?", admissionNumber).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) ListUnlinked(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.db.WithContext(ctx).
		Where("user_id IS NULL").
		Order("created_at ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepo) List(ctx context.Context, filters *ProfileListFilters, offset, limit int) ([]model.Profile, int64, error) {
	var profiles []model.Profile
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Profile{})

	if filters != nil {
		if filters.Role != "" {
			db = db.Where("role = ?", filters.Role)
		}
		if filters.Unlinked {
			db = db.Where("user_id IS NULL")
		}
		if filters.Keyword != "" {
			kw := "%" + filters.Keyword + "%"
			db = db.Where(
				"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR admission_number ILIKE ?",
				kw, kw, kw, kw,
			)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepo) LinkIdentity(ctx context.Context, profileID, identityID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]interface{}{
			"user_id":               identityID,
			"force_password_change": true,
		}).Error
}

func (r *profileRepo) SetForcePasswordChange(ctx context.Context, profileID string, force bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("id = ?", profileID).
		Update("force_password_change", force).Error
}
