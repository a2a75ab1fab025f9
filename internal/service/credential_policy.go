package service

import (
	"strings"

	"github.com/abdul-maxwell/zetech-smart-attend/config"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/model"
)

// Credential is a provisioning-time login pair derived from a profile.
type Credential struct {
	Email    string
	Password string
}

// CredentialPolicy derives and recognizes default credentials.
// Students log in with <admission_number>@<domain> and their admission
// number as password; staff log in with their own email and the fixed
// staff default. Pure: no I/O, no side effects.
type CredentialPolicy struct {
	emailDomain   string
	staffPassword string
}

// NewCredentialPolicy creates the policy from institution config.
func NewCredentialPolicy(cfg *config.InstitutionConfig) *CredentialPolicy {
	return &CredentialPolicy{
		emailDomain:   cfg.EmailDomain,
		staffPassword: cfg.StaffDefaultPassword,
	}
}

// ComputeCredential returns the default credential for a profile, or
// ok=false when the profile lacks the data to derive one (a student
// without an admission number, staff without an email, unknown role).
func (p *CredentialPolicy) ComputeCredential(profile *model.Profile) (Credential, bool) {
	switch {
	case profile.Role == model.RoleStudent && profile.AdmissionNumber != "":
		return Credential{
			Email:    profile.AdmissionNumber + "@" + p.emailDomain,
			Password: profile.AdmissionNumber,
		}, true
	case profile.Role.Staff() && profile.Email != "":
		return Credential{
			Email:    profile.Email,
			Password: p.staffPassword,
		}, true
	default:
		return Credential{}, false
	}
}

// IsDefaultPassword reports whether the supplied password is the
// profile's provisioning-time default.
func (p *CredentialPolicy) IsDefaultPassword(profile *model.Profile, supplied string) bool {
	switch {
	case profile.Role == model.RoleStudent:
		return profile.AdmissionNumber != "" && supplied == profile.AdmissionNumber
	case profile.Role.Staff():
		return supplied == p.staffPassword
	default:
		return false
	}
}

// LoginEmail maps a login identifier to the email used for
// authentication: identifiers without an "@" are treated as admission
// numbers and get the institution domain appended.
func (p *CredentialPolicy) LoginEmail(identifier string) string {
	if strings.ContainsRune(identifier, '@') {
		return identifier
	}
	return identifier + "@" + p.emailDomain
}
