package orgs

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/dberr"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

type AgencyRepo interface {
	Create(dbc dbctx.Context, agency *types.Agency) (*types.Agency, error)
	List(dbc dbctx.Context) ([]*types.Agency, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Agency, error)
}

type agencyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAgencyRepo(db *gorm.DB, baseLog *logger.Logger) AgencyRepo {
	return &agencyRepo{db: db, log: baseLog.With("repo", "AgencyRepo")}
}

func (r *agencyRepo) Create(dbc dbctx.Context, agency *types.Agency) (*types.Agency, error) {
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).Create(agency).Error; err != nil {
		return nil, dberr.Map(err, "agency not found")
	}
	return agency, nil
}

func (r *agencyRepo) List(dbc dbctx.Context) ([]*types.Agency, error) {
	var results []*types.Agency
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		Order("name asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *agencyRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Agency, error) {
	var results []*types.Agency
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
