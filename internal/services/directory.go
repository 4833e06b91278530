package services

import (
	"context"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/repos"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

// DirectoryService backs the org pickers: flat id+name listings, no paging.
type DirectoryService interface {
	ListAgencies(ctx context.Context) ([]*types.Agency, error)
	ListClients(ctx context.Context) ([]*types.Client, error)
}

type directoryService struct {
	log      *logger.Logger
	agencies repos.AgencyRepo
	clients  repos.ClientRepo
}

func NewDirectoryService(log *logger.Logger, agencies repos.AgencyRepo, clients repos.ClientRepo) DirectoryService {
	return &directoryService{
		log:      log.With("service", "DirectoryService"),
		agencies: agencies,
		clients:  clients,
	}
}

func (s *directoryService) ListAgencies(ctx context.Context) ([]*types.Agency, error) {
	return s.agencies.List(dbctx.Context{Ctx: ctx})
}

func (s *directoryService) ListClients(ctx context.Context) ([]*types.Client, error) {
	return s.clients.List(dbctx.Context{Ctx: ctx})
}
