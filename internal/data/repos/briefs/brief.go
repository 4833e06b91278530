package briefs

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/dberr"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

type BriefRepo interface {
	Create(dbc dbctx.Context, brief *types.Brief) (*types.Brief, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Brief, error)
	ListByClient(dbc dbctx.Context, clientID uuid.UUID) ([]*types.Brief, error)
	ListByAgency(dbc dbctx.Context, agencyID uuid.UUID) ([]*types.Brief, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status types.BriefStatus, updatedBy uuid.UUID) error
}

type briefRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBriefRepo(db *gorm.DB, baseLog *logger.Logger) BriefRepo {
	return &briefRepo{db: db, log: baseLog.With("repo", "BriefRepo")}
}

func (r *briefRepo) Create(dbc dbctx.Context, brief *types.Brief) (*types.Brief, error) {
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).Create(brief).Error; err != nil {
		return nil, dberr.Map(err, "brief not found")
	}
	return brief, nil
}

func (r *briefRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Brief, error) {
	var brief types.Brief
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		First(&brief, "id = ?", id).Error; err != nil {
		return nil, dberr.Map(err, "brief not found")
	}
	return &brief, nil
}

func (r *briefRepo) ListByClient(dbc dbctx.Context, clientID uuid.UUID) ([]*types.Brief, error) {
	var results []*types.Brief
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		Where("client_id = ?", clientID).
		Order("created_at desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListByAgency returns every brief that has a plan targeting the agency.
func (r *briefRepo) ListByAgency(dbc dbctx.Context, agencyID uuid.UUID) ([]*types.Brief, error) {
	var results []*types.Brief
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		Joins(`JOIN "plan" ON "plan".brief_id = "brief".id`).
		Where(`"plan".agency_id = ?`, agencyID).
		Order(`"brief".created_at desc`).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *briefRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status types.BriefStatus, updatedBy uuid.UUID) error {
	return dbc.DB(r.db).WithContext(dbc.Ctx).
		Model(&types.Brief{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_by": updatedBy}).Error
}
