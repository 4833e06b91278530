package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
	"github.com/mediaflowhq/mediaflow-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Directory services.DirectoryService
	Schema    services.SchemaService
	Brief     services.BriefService
	Plan      services.PlanService
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, reposet.User)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}
	directory := services.NewDirectoryService(log, reposet.Agency, reposet.Client)
	schema := services.NewSchemaService(log, clients.SchemaStore)
	brief := services.NewBriefService(db, log, reposet.Brief, reposet.Plan, reposet.History, reposet.Agency)
	plan := services.NewPlanService(
		db,
		log,
		reposet.Plan,
		reposet.Brief,
		reposet.History,
		reposet.Agency,
		clients.Store,
		clients.Mapper,
		schema,
		clients.Locks,
		brief,
	)

	return Services{
		Auth:      auth,
		Directory: directory,
		Schema:    schema,
		Brief:     brief,
		Plan:      plan,
	}, nil
}
