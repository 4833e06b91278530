package orgs

import (
	"time"

	"github.com/google/uuid"
)

// Agency is an agency-side organization: the party that uploads and submits
// plans against a brief.
type Agency struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;uniqueIndex" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Agency) TableName() string { return "agency" }
