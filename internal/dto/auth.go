package dto

// ── auth requests ──

// LoginRequest authenticates by identifier + password. Identifier is
// either a full email or a bare admission number; bare identifiers get
// the institution domain appended before lookup.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password"   binding:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest sets a new password for the caller.
// Validation (non-empty, confirmation match, minimum length) happens
// before any remote call; see AuthService.ChangePassword.
type ChangePasswordRequest struct {
	NewPassword     string `json:"new_password"     binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}
