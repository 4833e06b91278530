// Package domain re-exports the entity types and enums so callers can
// depend on one import path instead of each area package.
package domain

import (
	"github.com/mediaflowhq/mediaflow-backend/internal/domain/briefs"
	"github.com/mediaflowhq/mediaflow-backend/internal/domain/orgs"
)

type (
	Client       = orgs.Client
	Agency       = orgs.Agency
	User         = orgs.User
	Brief        = briefs.Brief
	Plan         = briefs.Plan
	HistoryTrail = briefs.HistoryTrail
	BriefStatus  = briefs.BriefStatus
	PlanStatus   = briefs.PlanStatus
	HumanMapping = briefs.HumanMapping
)

const (
	RoleClientAdmin  = orgs.RoleClientAdmin
	RoleAgencyMember = orgs.RoleAgencyMember

	BriefStatusActive   = briefs.BriefStatusActive
	BriefStatusApproved = briefs.BriefStatusApproved
	BriefStatusRejected = briefs.BriefStatusRejected

	PlanStatusDraft         = briefs.PlanStatusDraft
	PlanStatusPendingReview = briefs.PlanStatusPendingReview
	PlanStatusApproved      = briefs.PlanStatusApproved
	PlanStatusRejected      = briefs.PlanStatusRejected

	ActionNewBriefCreated = briefs.ActionNewBriefCreated
	ActionFileUploaded    = briefs.ActionFileUploaded
	ActionColumnsExtract  = briefs.ActionColumnsExtract
	ActionColumnsUpdated  = briefs.ActionColumnsUpdated
	ActionPlanSubmitted   = briefs.ActionPlanSubmitted
	ActionStatusChange    = briefs.ActionStatusChange
	ActionCommentAdded    = briefs.ActionCommentAdded
)
