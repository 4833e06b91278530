package app

import (
	"gorm.io/gorm"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/repos"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

type Repos struct {
	User    repos.UserRepo
	Client  repos.ClientRepo
	Agency  repos.AgencyRepo
	Brief   repos.BriefRepo
	Plan    repos.PlanRepo
	History repos.HistoryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:    repos.NewUserRepo(db, log),
		Client:  repos.NewClientRepo(db, log),
		Agency:  repos.NewAgencyRepo(db, log),
		Brief:   repos.NewBriefRepo(db, log),
		Plan:    repos.NewPlanRepo(db, log),
		History: repos.NewHistoryRepo(db, log),
	}
}
