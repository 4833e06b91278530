package repos

import (
	"gorm.io/gorm"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/repos/briefs"
	"github.com/mediaflowhq/mediaflow-backend/internal/data/repos/orgs"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

type UserRepo = orgs.UserRepo
type ClientRepo = orgs.ClientRepo
type AgencyRepo = orgs.AgencyRepo

type BriefRepo = briefs.BriefRepo
type PlanRepo = briefs.PlanRepo
type HistoryRepo = briefs.HistoryRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return orgs.NewUserRepo(db, baseLog)
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return orgs.NewClientRepo(db, baseLog)
}

func NewAgencyRepo(db *gorm.DB, baseLog *logger.Logger) AgencyRepo {
	return orgs.NewAgencyRepo(db, baseLog)
}

func NewBriefRepo(db *gorm.DB, baseLog *logger.Logger) BriefRepo {
	return briefs.NewBriefRepo(db, baseLog)
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	return briefs.NewPlanRepo(db, baseLog)
}

func NewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) HistoryRepo {
	return briefs.NewHistoryRepo(db, baseLog)
}
