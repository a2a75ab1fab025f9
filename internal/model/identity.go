package model

// Identity is an authentication account: a credential record plus the
// name/role metadata supplied at creation. The profile's UserID column
// back-references IdentityID one-to-one.
type Identity struct {
	IdentityID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"identity_id"`
	Email         string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash  string `gorm:"type:varchar(255);not null"                     json:"-"`
	EmailVerified bool   `gorm:"not null;default:false"                         json:"email_verified"`
	FirstName     string `gorm:"type:varchar(100);not null;default:''"          json:"first_name"`
	LastName      string `gorm:"type:varchar(100);not null;default:''"          json:"last_name"`
	Role          Role   `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	BaseModel
}

// TableName sets the table name.
func (Identity) TableName() string { return "identities" }
