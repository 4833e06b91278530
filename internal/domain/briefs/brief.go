package briefs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mediaflowhq/mediaflow-backend/internal/domain/orgs"
)

type BriefStatus string

const (
	BriefStatusActive   BriefStatus = "ACTIVE"
	BriefStatusApproved BriefStatus = "APPROVED"
	BriefStatusRejected BriefStatus = "REJECTED"
)

// Brief is one campaign request issued by a client org and fanned out to one
// plan per targeted agency. Status is derived from the plan set by
// aggregation; nothing sets it directly.
type Brief struct {
	ID       uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClientID uuid.UUID    `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   *orgs.Client `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`

	Name   string      `gorm:"column:name;not null" json:"name"`
	Status BriefStatus `gorm:"column:status;not null;default:'ACTIVE'" json:"status"`

	Brand                string         `gorm:"column:brand" json:"brand"`
	Budget               *float64       `gorm:"column:budget" json:"budget,omitempty"`
	DemographicsAge      string         `gorm:"column:demographics_age" json:"demographics_age"`
	DemographicsGender   string         `gorm:"column:demographics_gender" json:"demographics_gender"`
	NCCS                 string         `gorm:"column:nccs" json:"nccs"`
	Psychographics       string         `gorm:"column:psychographics" json:"psychographics"`
	KeyMarkets           datatypes.JSON `gorm:"column:key_markets;type:jsonb" json:"key_markets"`
	P1Markets            datatypes.JSON `gorm:"column:p1_markets;type:jsonb" json:"p1_markets"`
	P2Markets            datatypes.JSON `gorm:"column:p2_markets;type:jsonb" json:"p2_markets"`
	EditDurations        datatypes.JSON `gorm:"column:edit_durations;type:jsonb" json:"edit_durations"`
	ACD                  string         `gorm:"column:acd" json:"acd"`
	Dispersion           string         `gorm:"column:dispersion" json:"dispersion"`
	AdvertisementLink    string         `gorm:"column:advertisement_link" json:"advertisement_link"`
	CreativeLanguages    datatypes.JSON `gorm:"column:creative_languages;type:jsonb" json:"creative_languages"`
	SchedulingPreference string         `gorm:"column:scheduling_preference" json:"scheduling_preference"`
	Miscellaneous        string         `gorm:"column:miscellaneous" json:"miscellaneous"`
	Remarks              string         `gorm:"column:remarks" json:"remarks"`

	Plans []Plan `gorm:"constraint:OnDelete:CASCADE;foreignKey:BriefID;references:ID" json:"plans,omitempty"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	UpdatedBy uuid.UUID `gorm:"type:uuid;not null" json:"updated_by"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Brief) TableName() string { return "brief" }

// AggregateStatus derives the brief status from the full plan set: all
// approved wins, any rejection loses, anything else leaves current in place.
func AggregateStatus(current BriefStatus, plans []Plan) BriefStatus {
	if len(plans) == 0 {
		return current
	}
	approved := 0
	rejected := 0
	for _, p := range plans {
		switch p.Status {
		case PlanStatusApproved:
			approved++
		case PlanStatusRejected:
			rejected++
		}
	}
	switch {
	case approved == len(plans):
		return BriefStatusApproved
	case rejected > 0:
		return BriefStatusRejected
	default:
		return current
	}
}
