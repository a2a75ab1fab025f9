package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/dto"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/model"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/repository"
)

// ProvisionService reconciles unlinked profiles against the identity
// provider: for each profile without a linked identity it derives the
// default credential, creates the identity, and links it back with
// force_password_change set.
//
// The run is strictly sequential and per-profile failures never abort
// the batch. Concurrent runs are not coordinated; the identity store's
// unique email constraint turns the race into a reported per-profile
// error on the slower run.
type ProvisionService interface {
	// Run executes one bulk provisioning pass. Only a failure of the
	// initial unlinked-profile fetch returns an error; everything else
	// is reported inside the BatchReport.
	Run(ctx context.Context) (*dto.BatchReport, error)
}

type provisionService struct {
	profiles repository.ProfileRepository
	provider IdentityProvider
	policy   *CredentialPolicy
	logger   *zap.Logger
}

// NewProvisionService creates a ProvisionService instance.
func NewProvisionService(
	profiles repository.ProfileRepository,
	provider IdentityProvider,
	policy *CredentialPolicy,
	logger *zap.Logger,
) ProvisionService {
	return &provisionService{
		profiles: profiles,
		provider: provider,
		policy:   policy,
		logger:   logger,
	}
}

func (s *provisionService) Run(ctx context.Context) (*dto.BatchReport, error) {
	unlinked, err := s.profiles.ListUnlinked(ctx)
	if err != nil {
		s.logger.Error("failed to fetch unlinked profiles", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}

	if len(unlinked) == 0 {
		return &dto.BatchReport{
			Message: "No profiles need user creation",
			Results: []dto.ProvisioningResult{},
		}, nil
	}

	// Fold each profile into at most one result; skipped profiles
	// (no derivable credential) produce none. Counters are derived
	// from the collected results afterwards.
	results := make([]dto.ProvisioningResult, 0, len(unlinked))
	for i := range unlinked {
		if res, ok := s.provisionOne(ctx, &unlinked[i]); ok {
			results = append(results, res)
		}
	}

	report := &dto.BatchReport{
		Message:       "Bulk user creation completed",
		TotalProfiles: len(unlinked),
		Results:       results,
	}
	for _, r := range results {
		if r.Success {
			report.Created++
		} else {
			report.Errors++
		}
	}

	s.logger.Info("bulk provisioning run finished",
		zap.Int("total_profiles", report.TotalProfiles),
		zap.Int("created", report.Created),
		zap.Int("errors", report.Errors),
	)

	return report, nil
}

// provisionOne handles a single profile. ok=false means the profile was
// skipped for insufficient data and contributes nothing to the report's
// results.
func (s *provisionService) provisionOne(ctx context.Context, profile *model.Profile) (dto.ProvisioningResult, bool) {
	cred, ok := s.policy.ComputeCredential(profile)
	if !ok {
		s.logger.Info("skipping profile, insufficient data",
			zap.String("profile_id", profile.ID),
			zap.String("role", string(profile.Role)),
		)
		return dto.ProvisioningResult{}, false
	}

	identity, err := s.provider.CreateIdentity(ctx, NewIdentity{
		Email:         cred.Email,
		Password:      cred.Password,
		EmailVerified: true,
		FirstName:     profile.FirstName,
		LastName:      profile.LastName,
		Role:          profile.Role,
	})
	if err != nil {
		s.logger.Error("failed to create identity",
			zap.String("profile_id", profile.ID),
			zap.String("email", cred.Email),
			zap.Error(err),
		)
		return dto.ProvisioningResult{
			ProfileID: profile.ID,
			Email:     cred.Email,
			Success:   false,
			Error:     err.Error(),
		}, true
	}

	if err := s.profiles.LinkIdentity(ctx, profile.ID, identity.IdentityID); err != nil {
		// The identity now exists without a profile link. Reported
		// with both ids so it can be reconciled manually; never
		// rolled back here.
		s.logger.Warn("identity created but profile link failed, orphaned identity",
			zap.String("profile_id", profile.ID),
			zap.String("identity_id", identity.IdentityID),
			zap.Error(err),
		)
		return dto.ProvisioningResult{
			ProfileID:  profile.ID,
			Email:      cred.Email,
			AuthUserID: identity.IdentityID,
			Success:    false,
			Error:      err.Error(),
		}, true
	}

	s.logger.Info("provisioned identity for profile",
		zap.String("profile_id", profile.ID),
		zap.String("email", cred.Email),
		zap.String("role", string(profile.Role)),
	)

	return dto.ProvisioningResult{
		ProfileID:  profile.ID,
		Email:      cred.Email,
		AuthUserID: identity.IdentityID,
		Success:    true,
	}, true
}
