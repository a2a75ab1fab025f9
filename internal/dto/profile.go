package dto

// ── profile requests ──

// CreateProfileRequest creates an unlinked profile record.
type CreateProfileRequest struct {
	Email           string `json:"email"            binding:"omitempty,email"`
	AdmissionNumber string `json:"admission_number"`
	Role            string `json:"role"             binding:"required,oneof=student lecturer admin"`
	FirstName       string `json:"first_name"       binding:"required"`
	LastName        string `json:"last_name"        binding:"required"`
}

// UpdateProfileRequest updates mutable profile fields (nil = unchanged).
type UpdateProfileRequest struct {
	Email     *string `json:"email"      binding:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// ProfileListRequest filters the profile list.
type ProfileListRequest struct {
	PaginationRequest
	Role     string `form:"role"     binding:"omitempty,oneof=student lecturer admin"`
	Unlinked bool   `form:"unlinked"` // only profiles without an identity
	Keyword  string `form:"keyword"`
}

// ── roster import ──

// ImportProfileError describes one rejected roster row.
type ImportProfileError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportProfileResponse summarizes an Excel roster import.
type ImportProfileResponse struct {
	Total   int                  `json:"total"`
	Success int                  `json:"success"`
	Failed  int                  `json:"failed"`
	Errors  []ImportProfileError `json:"errors,omitempty"`
}
