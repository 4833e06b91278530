package briefs

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionNewBriefCreated = "NEW_BRIEF_CREATED"
	ActionFileUploaded    = "FILE_UPLOADED"
	ActionColumnsExtract  = "COLUMNS_EXTRACTED"
	ActionColumnsUpdated  = "COLUMNS_UPDATED"
	ActionPlanSubmitted   = "PLAN_SUBMITTED"
	ActionStatusChange    = "STATUS_CHANGE"
	ActionCommentAdded    = "COMMENT_ADDED"
)

// HistoryTrail is one immutable audit entry. Rows are only ever appended;
// ordering is creation order.
type HistoryTrail struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanID uuid.UUID `gorm:"type:uuid;not null;index" json:"plan_id"`
	Plan   *Plan     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PlanID;references:ID" json:"plan,omitempty"`

	Action    string    `gorm:"column:action;not null" json:"action"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null" json:"actor_id"`
	ActorName string    `gorm:"column:actor_name;not null" json:"actor_name"`
	Detail    string    `gorm:"column:detail" json:"detail"`
	Comment   *string   `gorm:"column:comment" json:"comment,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (HistoryTrail) TableName() string { return "history_trail" }
