package dto

// ── auth responses ──

// TokenResponse is returned on successful login/refresh.
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"` // access token validity in seconds
	Profile      ProfileResponse `json:"profile"`
}

// ── profile responses ──

// ProfileResponse is the public view of a profile.
// ForcePasswordChange drives the client-side password gate: while true,
// the client renders only the password-change form.
type ProfileResponse struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	AdmissionNumber     string `json:"admission_number,omitempty"`
	Role                string `json:"role"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	UserID              string `json:"user_id,omitempty"`
	ForcePasswordChange bool   `json:"force_password_change"`
}

// ── pagination ──

// PaginationRequest common list paging parameters.
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage returns the page number with its default.
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize returns the page size with its default.
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset computes the query offset.
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
