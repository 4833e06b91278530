package orgs

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/dberr"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

type ClientRepo interface {
	Create(dbc dbctx.Context, client *types.Client) (*types.Client, error)
	List(dbc dbctx.Context) ([]*types.Client, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Client, error)
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return &clientRepo{db: db, log: baseLog.With("repo", "ClientRepo")}
}

func (r *clientRepo) Create(dbc dbctx.Context, client *types.Client) (*types.Client, error) {
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).Create(client).Error; err != nil {
		return nil, dberr.Map(err, "client not found")
	}
	return client, nil
}

func (r *clientRepo) List(dbc dbctx.Context) ([]*types.Client, error) {
	var results []*types.Client
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		Order("name asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *clientRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Client, error) {
	var client types.Client
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		First(&client, "id = ?", id).Error; err != nil {
		return nil, dberr.Map(err, "client not found")
	}
	return &client, nil
}
