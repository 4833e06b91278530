package orgs

import (
	"time"

	"github.com/google/uuid"
)

// Client is a client-side organization: the party that issues briefs and
// reviews the plans submitted against them.
type Client struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;uniqueIndex" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Client) TableName() string { return "client" }
