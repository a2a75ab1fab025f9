package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/abdul-maxwell/zetech-smart-attend/config"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/dto"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/model"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/repository"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/jwt"
)

// ── test helpers ──

func setupTestAuthService() (AuthService, *mockProfileRepo, *mockIdentityRepo, *mockIdentityProvider) {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-unit-testing",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Institution: config.InstitutionConfig{
			EmailDomain:          "zetech.ac.ke",
			StaffDefaultPassword: "admin",
		},
	}

	profileRepo := newMockProfileRepo()
	identityRepo := newMockIdentityRepo()
	provider := newMockIdentityProvider(identityRepo)
	repo := &repository.Repository{
		Profile:    profileRepo,
		Identity:   identityRepo,
		Session:    newMockSessionRepo(),
		Attendance: newMockAttendanceRepo(),
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)
	policy := NewCredentialPolicy(&cfg.Institution)

	svc := NewAuthService(cfg, repo, provider, policy, jwtMgr, nil, zap.NewNop())
	return svc, profileRepo, identityRepo, provider
}

// createLinkedStudent creates an identity plus a linked student profile.
func createLinkedStudent(profileRepo *mockProfileRepo, identityRepo *mockIdentityRepo, admission, password string) *model.Profile {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	identity := &model.Identity{
		Email:        admission + "@zetech.ac.ke",
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
	}
	_ = identityRepo.Create(context.Background(), identity)

	profile := &model.Profile{
		AdmissionNumber: admission,
		Role:            model.RoleStudent,
		FirstName:       "Test",
		LastName:        "Student",
		UserID:          &identity.IdentityID,
	}
	_ = profileRepo.Create(context.Background(), profile)
	return profile
}

// ── Login ──

func TestLogin_Success(t *testing.T) {
	svc, profileRepo, identityRepo, _ := setupTestAuthService()
	createLinkedStudent(profileRepo, identityRepo, "SCT221-0001", "mypassword")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "SCT221-0001@zetech.ac.ke",
		Password:   "mypassword",
	})

	if err != nil {
		t.Fatalf("Login must succeed: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("both tokens must be issued")
	}
	if result.ExpiresIn != 900 {
		t.Errorf("expected ExpiresIn=900, got %d", result.ExpiresIn)
	}
	if result.Profile.AdmissionNumber != "SCT221-0001" {
		t.Errorf("unexpected profile in response: %+v", result.Profile)
	}
}

func TestLogin_BareAdmissionNumber(t *testing.T) {
	svc, profileRepo, identityRepo, _ := setupTestAuthService()
	createLinkedStudent(profileRepo, identityRepo, "SCT221-0001", "mypassword")

	// identifier without "@" resolves against the institution domain
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "SCT221-0001",
		Password:   "mypassword",
	})
	if err != nil {
		t.Fatalf("bare admission number login must succeed: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, profileRepo, identityRepo, _ := setupTestAuthService()
	createLinkedStudent(profileRepo, identityRepo, "SCT221-0001", "mypassword")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "SCT221-0001",
		Password:   "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestLogin_NoLinkedProfile(t *testing.T) {
	svc, _, identityRepo, _ := setupTestAuthService()

	hash, _ := bcrypt.GenerateFromPassword([]byte("pw1234"), bcrypt.MinCost)
	_ = identityRepo.Create(context.Background(), &model.Identity{
		Email:        "orphan@zetech.ac.ke",
		PasswordHash: string(hash),
	})

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "orphan@zetech.ac.ke",
		Password:   "pw1234",
	})
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got: %v", err)
	}
}

// ── default-password detection ──

func TestLogin_DefaultPasswordSetsFlag(t *testing.T) {
	svc, profileRepo, identityRepo, _ := setupTestAuthService()

	// student provisioned with the default: password == admission number
	profile := createLinkedStudent(profileRepo, identityRepo, "SCT221-0002", "SCT221-0002")

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "SCT221-0002",
		Password:   "SCT221-0002",
	}); err != nil {
		t.Fatalf("Login must succeed: %v", err)
	}

	got, _ := profileRepo.GetByID(context.Background(), profile.ID)
	if !got.ForcePasswordChange {
		t.Error("logging in with the default password must set force_password_change")
	}
}

func TestLogin_NonDefaultPasswordLeavesFlag(t *testing.T) {
	svc, profileRepo, identityRepo, _ := setupTestAuthService()
	profile := createLinkedStudent(profileRepo, identityRepo, "SCT221-0003", "changed-already")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "SCT221-0003",
		Password:   "changed-already",
	})
	if err != nil {
		t.Fatalf("Login must succeed: %v", err)
	}

	got, _ := profileRepo.GetByID(context.Background(), profile.ID)
	if got.ForcePasswordChange {
		t.Error("a non-default password must not set the flag")
	}
}

func TestLogin_FlagWriteFailureDoesNotBlockLogin(t *testing.T) {
	svc, profileRepo, identityRepo, _ := setupTestAuthService()
	createLinkedStudent(profileRepo, identityRepo, "SCT221-0004", "SCT221-0004")
	profileRepo.failSetFlag = errMockDB

	// the session is established even when the flag write fails
	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "SCT221-0004",
		Password:   "SCT221-0004",
	})
	if err != nil {
		t.Fatalf("Login must still succeed: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("tokens must be issued despite the failed flag write")
	}
}

// ── RefreshToken ──

func TestRefreshToken_Success(t *testing.T) {
	svc, profileRepo, identityRepo, _ := setupTestAuthService()
	createLinkedStudent(profileRepo, identityRepo, "SCT221-0005", "mypassword")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "SCT221-0005",
		Password:   "mypassword",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	result, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken must succeed: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("a new access token must be issued")
	}
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	svc, profileRepo, identityRepo, _ := setupTestAuthService()
	createLinkedStudent(profileRepo, identityRepo, "SCT221-0006", "mypassword")

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "SCT221-0006",
		Password:   "mypassword",
	})

	_, err := svc.RefreshToken(context.Background(), login.AccessToken)
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("access tokens must not refresh, got: %v", err)
	}
}

func TestRefreshToken_Garbage(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	_, err := svc.RefreshToken(context.Background(), "not.a.token")
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("expected ErrRefreshInvalid, got: %v", err)
	}
}

// ── ChangePassword ──

func TestChangePassword_Success(t *testing.T) {
	svc, profileRepo, identityRepo, _ := setupTestAuthService()
	profile := createLinkedStudent(profileRepo, identityRepo, "SCT221-0007", "SCT221-0007")
	profile.ForcePasswordChange = true

	err := svc.ChangePassword(context.Background(), *profile.UserID, &dto.ChangePasswordRequest{
		NewPassword:     "new-secret-1",
		ConfirmPassword: "new-secret-1",
	})
	if err != nil {
		t.Fatalf("ChangePassword must succeed: %v", err)
	}

	got, _ := profileRepo.GetByID(context.Background(), profile.ID)
	if got.ForcePasswordChange {
		t.Error("a successful change must clear force_password_change")
	}

	// the new password logs in, the old one does not
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "SCT221-0007", Password: "new-secret-1",
	}); err != nil {
		t.Errorf("new password must log in: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Identifier: "SCT221-0007", Password: "SCT221-0007",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password must be rejected, got: %v", err)
	}
}

func TestChangePassword_MismatchRejectedLocally(t *testing.T) {
	svc, profileRepo, identityRepo, provider := setupTestAuthService()
	profile := createLinkedStudent(profileRepo, identityRepo, "SCT221-0008", "SCT221-0008")

	err := svc.ChangePassword(context.Background(), *profile.UserID, &dto.ChangePasswordRequest{
		NewPassword:     "new-secret-1",
		ConfirmPassword: "new-secret-2",
	})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got: %v", err)
	}
	// validation failures never reach the identity provider
	if provider.updateCalls != 0 {
		t.Errorf("no provider call expected, got %d", provider.updateCalls)
	}
}

func TestChangePassword_TooShortRejectedLocally(t *testing.T) {
	svc, profileRepo, identityRepo, provider := setupTestAuthService()
	profile := createLinkedStudent(profileRepo, identityRepo, "SCT221-0009", "SCT221-0009")

	for _, pw := range []string{"", "abc12"} {
		err := svc.ChangePassword(context.Background(), *profile.UserID, &dto.ChangePasswordRequest{
			NewPassword:     pw,
			ConfirmPassword: pw,
		})
		if !errors.Is(err, ErrPasswordTooShort) {
			t.Errorf("password %q: expected ErrPasswordTooShort, got: %v", pw, err)
		}
	}
	if provider.updateCalls != 0 {
		t.Errorf("no provider call expected, got %d", provider.updateCalls)
	}
}

func TestChangePassword_ProviderFailureKeepsFlag(t *testing.T) {
	svc, profileRepo, identityRepo, provider := setupTestAuthService()
	profile := createLinkedStudent(profileRepo, identityRepo, "SCT221-0010", "SCT221-0010")
	_ = profileRepo.SetForcePasswordChange(context.Background(), profile.ID, true)
	provider.failUpdate = errMockDB

	err := svc.ChangePassword(context.Background(), *profile.UserID, &dto.ChangePasswordRequest{
		NewPassword:     "new-secret-1",
		ConfirmPassword: "new-secret-1",
	})
	if err == nil {
		t.Fatal("a failed provider update must surface")
	}

	got, _ := profileRepo.GetByID(context.Background(), profile.ID)
	if !got.ForcePasswordChange {
		t.Error("the gate flag must stay set when the password update fails")
	}
}

// ── GetCurrentProfile ──

func TestGetCurrentProfile(t *testing.T) {
	svc, profileRepo, identityRepo, _ := setupTestAuthService()
	profile := createLinkedStudent(profileRepo, identityRepo, "SCT221-0011", "pw")
	_ = profileRepo.SetForcePasswordChange(context.Background(), profile.ID, true)

	got, err := svc.GetCurrentProfile(context.Background(), *profile.UserID)
	if err != nil {
		t.Fatalf("GetCurrentProfile must succeed: %v", err)
	}
	// the re-read carries the gate flag so the client can re-enter it
	if !got.ForcePasswordChange {
		t.Error("the response must carry force_password_change")
	}
}

func TestGetCurrentProfile_NotFound(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	_, err := svc.GetCurrentProfile(context.Background(), "nonexistent")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got: %v", err)
	}
}
