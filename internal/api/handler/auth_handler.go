package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/dto"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/service"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/response"
)

// AuthHandler authentication HTTP handlers.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login authenticates by identifier + password.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, 11001, "invalid identifier or password")
		case errors.Is(err, service.ErrProfileNotFound):
			response.Error(c, http.StatusUnauthorized, 11002, "no profile is linked to this account")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// RefreshToken exchanges a refresh token for a new pair.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshInvalid):
			response.Unauthorized(c, 11003, "refresh token invalid or expired")
		case errors.Is(err, service.ErrProfileNotFound):
			response.Unauthorized(c, 11002, "no profile is linked to this account")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Logout blacklists the caller's access token until it expires.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString("jti")
	expiresAt, _ := c.Get("token_exp")
	exp, ok := expiresAt.(time.Time)
	if jti == "" || !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// GetCurrentProfile returns the caller's profile. While the profile
// carries force_password_change=true the client keeps the user on the
// password-change form.
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentProfile(c *gin.Context) {
	identityID, ok := MustGetIdentityID(c)
	if !ok {
		return
	}

	profile, err := h.authSvc.GetCurrentProfile(c.Request.Context(), identityID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.NotFound(c, 11002, "no profile is linked to this account")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, profile)
}

// ChangePassword sets a new password and clears the forced-change flag.
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identityID, ok := MustGetIdentityID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), identityID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			response.BadRequest(c, 11004, "passwords do not match")
		case errors.Is(err, service.ErrPasswordTooShort):
			response.BadRequest(c, 11005, "password must be at least 6 characters long")
		case errors.Is(err, service.ErrProfileNotFound):
			response.NotFound(c, 11002, "no profile is linked to this account")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
