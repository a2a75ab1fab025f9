package model

// Role is the application role carried by a profile.
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

// Staff reports whether the role is a staff role (admin or lecturer).
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleLecturer
}

// Profile is the application-level user record, distinct from the
// authentication identity. UserID stays NULL until bulk provisioning
// links the profile to a created identity.
type Profile struct {
	ID                  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email               string  `gorm:"type:varchar(255);not null;default:''"          json:"email"`
	AdmissionNumber     string  `gorm:"type:varchar(50);not null;default:''"           json:"admission_number"`
	Role                Role    `gorm:"type:varchar(20);not null"                      json:"role"`
	FirstName           string  `gorm:"type:varchar(100);not null;default:''"          json:"first_name"`
	LastName            string  `gorm:"type:varchar(100);not null;default:''"          json:"last_name"`
	UserID              *string `gorm:"type:uuid"                                      json:"user_id"`
	ForcePasswordChange bool    `gorm:"not null;default:false"                         json:"force_password_change"`
	BaseModel
}

// TableName sets the table name.
func (Profile) TableName() string { return "profiles" }
