package service

import (
	"go.uber.org/zap"

	"github.com/abdul-maxwell/zetech-smart-attend/config"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/repository"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/ai"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/jwt"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/mail"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/redis"
)

// Service aggregates all business services.
type Service struct {
	Auth         AuthService
	Profile      ProfileService
	Provision    ProvisionService
	Attendance   AttendanceService
	Notification NotificationService
}

// NewService wires the service layer.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	policy := NewCredentialPolicy(&cfg.Institution)
	provider := NewIdentityProvider(repo.Identity)

	return &Service{
		Auth:         NewAuthService(cfg, repo, provider, policy, jwtMgr, rdb, logger),
		Profile:      NewProfileService(repo, logger),
		Provision:    NewProvisionService(repo.Profile, provider, policy, logger),
		Attendance:   NewAttendanceService(repo, logger),
		Notification: NewNotificationService(ai.NewClient(&cfg.AI), mail.NewClient(&cfg.Mail), logger),
	}
}
