package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abdul-maxwell/zetech-smart-attend/config"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/dto"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/model"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/repository"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/jwt"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/redis"
)

const passwordMinLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProfileNotFound    = errors.New("no profile found for user")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrRefreshInvalid     = errors.New("refresh token invalid or expired")
)

// AuthService owns login, token refresh, logout and the password gate.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	// GetCurrentProfile re-reads the caller's profile. This is the
	// "next profile read" that re-enters the password gate after the
	// force_password_change flag was set at login.
	GetCurrentProfile(ctx context.Context, identityID string) (*dto.ProfileResponse, error)
	ChangePassword(ctx context.Context, identityID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	provider IdentityProvider
	policy   *CredentialPolicy
	jwtMgr   *jwt.Manager
	rdb      *redis.Client
	logger   *zap.Logger
}

// NewAuthService creates an AuthService instance.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	provider IdentityProvider,
	policy *CredentialPolicy,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		repo:     repo,
		provider: provider,
		policy:   policy,
		jwtMgr:   jwtMgr,
		rdb:      rdb,
		logger:   logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// Bare admission numbers become institution emails before lookup.
	email := s.policy.LoginEmail(req.Identifier)

	identity, err := s.provider.Authenticate(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("authentication failed", zap.Error(err))
		return nil, err
	}

	profile, err := s.repo.Profile.GetByUserID(ctx, identity.IdentityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("failed to load profile", zap.Error(err))
		return nil, err
	}

	// Logging in with the default password marks the profile for a
	// forced change. Best effort: the session is established either
	// way, and the gate engages on the next profile read.
	if s.policy.IsDefaultPassword(profile, req.Password) && !profile.ForcePasswordChange {
		if err := s.repo.Profile.SetForcePasswordChange(ctx, profile.ID, true); err != nil {
			s.logger.Warn("failed to flag default password use",
				zap.String("profile_id", profile.ID),
				zap.Error(err),
			)
		}
	}

	return s.tokenResponse(identity.IdentityID, profile)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrRefreshInvalid
	}

	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err == nil && blacklisted {
			return nil, ErrRefreshInvalid
		}
	}

	profile, err := s.repo.Profile.GetByUserID(ctx, claims.IdentityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return s.tokenResponse(claims.IdentityID, profile)
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil {
		return nil // blacklist unavailable, token expires naturally
	}
	return s.rdb.BlacklistToken(ctx, jti, time.Until(expiresAt))
}

func (s *authService) GetCurrentProfile(ctx context.Context, identityID string) (*dto.ProfileResponse, error) {
	profile, err := s.repo.Profile.GetByUserID(ctx, identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("failed to load profile", zap.Error(err))
		return nil, err
	}
	return toProfileResponse(profile), nil
}

func (s *authService) ChangePassword(ctx context.Context, identityID string, req *dto.ChangePasswordRequest) error {
	// Local validation first: no remote call is made on failure.
	if req.NewPassword == "" {
		return ErrPasswordTooShort
	}
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(req.NewPassword) < passwordMinLength {
		return ErrPasswordTooShort
	}

	profile, err := s.repo.Profile.GetByUserID(ctx, identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	if err := s.provider.UpdatePassword(ctx, identityID, req.NewPassword); err != nil {
		s.logger.Error("failed to update identity password",
			zap.String("identity_id", identityID),
			zap.Error(err),
		)
		return err
	}

	// Clear the gate flag. If this fails the password has changed but
	// the profile still reads as must-change on next load; surfaced to
	// the caller, never silently dropped.
	if err := s.repo.Profile.SetForcePasswordChange(ctx, profile.ID, false); err != nil {
		s.logger.Error("password updated but flag clear failed",
			zap.String("profile_id", profile.ID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (s *authService) tokenResponse(identityID string, profile *model.Profile) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(identityID, profile.ID, string(profile.Role))
	if err != nil {
		s.logger.Error("failed to generate access token", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(identityID, profile.ID, string(profile.Role))
	if err != nil {
		s.logger.Error("failed to generate refresh token", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		Profile:      *toProfileResponse(profile),
	}, nil
}

// toProfileResponse converts a model.Profile to its public view.
func toProfileResponse(profile *model.Profile) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		ID:                  profile.ID,
		Email:               profile.Email,
		AdmissionNumber:     profile.AdmissionNumber,
		Role:                string(profile.Role),
		FirstName:           profile.FirstName,
		LastName:            profile.LastName,
		ForcePasswordChange: profile.ForcePasswordChange,
	}
	if profile.UserID != nil {
		resp.UserID = *profile.UserID
	}
	return resp
}
