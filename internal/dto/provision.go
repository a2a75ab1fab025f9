package dto

// ProvisioningResult is the per-profile outcome of one bulk run.
// Email is present when a credential was computed; AuthUserID when an
// identity was created (including the orphan case where the profile
// link update failed afterwards).
type ProvisioningResult struct {
	ProfileID  string `json:"profile_id"`
	Email      string `json:"email,omitempty"`
	AuthUserID string `json:"auth_user_id,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// BatchReport aggregates one bulk provisioning run.
// TotalProfiles counts every fetched unlinked profile, including ones
// skipped for insufficient data; skipped profiles produce no result entry.
type BatchReport struct {
	Message       string               `json:"message"`
	TotalProfiles int                  `json:"total_profiles"`
	Created       int                  `json:"created"`
	Errors        int                  `json:"errors"`
	Results       []ProvisioningResult `json:"results"`
}
