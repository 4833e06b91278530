package briefs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mediaflowhq/mediaflow-backend/internal/domain/orgs"
)

type PlanStatus string

const (
	PlanStatusDraft         PlanStatus = "DRAFT"
	PlanStatusPendingReview PlanStatus = "PENDING_REVIEW"
	PlanStatusApproved      PlanStatus = "APPROVED"
	PlanStatusRejected      PlanStatus = "REJECTED"
)

// IsTerminal reports whether the status admits no further transition.
func (s PlanStatus) IsTerminal() bool {
	return s == PlanStatusApproved || s == PlanStatusRejected
}

// IsSupportedReviewStatus reports whether s is a status a review call may
// set; review never moves a plan back to DRAFT or PENDING_REVIEW.
func IsSupportedReviewStatus(s string) bool {
	switch PlanStatus(s) {
	case PlanStatusApproved, PlanStatusRejected:
		return true
	default:
		return false
	}
}

// HumanMapping is one actor-supplied override: this zero-based source column
// maps to that canonical field. Stored in insertion order.
type HumanMapping struct {
	SourceColumnIndex int    `json:"source_column_index"`
	TargetField       string `json:"target_field"`
}

// Plan is one agency's submission against one brief. The three path fields
// mark successive pipeline stages; a new raw upload clears the later two
// along with both mapping sets.
type Plan struct {
	ID       uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BriefID  uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_plan_brief_agency" json:"brief_id"`
	Brief    *Brief       `gorm:"constraint:OnDelete:CASCADE;foreignKey:BriefID;references:ID" json:"brief,omitempty"`
	AgencyID uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_plan_brief_agency" json:"agency_id"`
	Agency   *orgs.Agency `gorm:"constraint:OnDelete:CASCADE;foreignKey:AgencyID;references:ID" json:"agency,omitempty"`

	Status        PlanStatus `gorm:"column:status;not null;default:'DRAFT'" json:"status"`
	VersionNumber int        `gorm:"column:version_number;not null;default:1" json:"version_number"`

	RawFilePath       *string `gorm:"column:raw_file_path" json:"raw_file_path,omitempty"`
	FlatFilePath      *string `gorm:"column:flat_file_path" json:"flat_file_path,omitempty"`
	ValidatedFilePath *string `gorm:"column:validated_file_path" json:"validated_file_path,omitempty"`

	AIMappings    datatypes.JSON `gorm:"column:ai_mappings;type:jsonb" json:"ai_mappings"`
	HumanMappings datatypes.JSON `gorm:"column:human_mappings;type:jsonb" json:"human_mappings"`

	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	History []HistoryTrail `gorm:"constraint:OnDelete:CASCADE;foreignKey:PlanID;references:ID" json:"history,omitempty"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	UpdatedBy uuid.UUID `gorm:"type:uuid;not null" json:"updated_by"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Plan) TableName() string { return "plan" }

// ResetPipeline clears every artifact derived from the raw file. Called when
// a new raw upload is requested; status is deliberately left alone.
func (p *Plan) ResetPipeline() {
	p.FlatFilePath = nil
	p.ValidatedFilePath = nil
	p.AIMappings = nil
	p.HumanMappings = nil
}
