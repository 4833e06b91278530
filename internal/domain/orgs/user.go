package orgs

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleClientAdmin  = "CLIENT_ADMIN"
	RoleAgencyMember = "AGENCY_MEMBER"
)

// User belongs to exactly one organization; which FK is set follows the role.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Role         string    `gorm:"column:role;not null" json:"role"`

	ClientID *uuid.UUID `gorm:"type:uuid;index" json:"client_id,omitempty"`
	Client   *Client    `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	AgencyID *uuid.UUID `gorm:"type:uuid;index" json:"agency_id,omitempty"`
	Agency   *Agency    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AgencyID;references:ID" json:"agency,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "user" }

func (u *User) IsClientAdmin() bool  { return u.Role == RoleClientAdmin }
func (u *User) IsAgencyMember() bool { return u.Role == RoleAgencyMember }
