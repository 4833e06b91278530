package briefs

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/dberr"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

type PlanRepo interface {
	Create(dbc dbctx.Context, plans []*types.Plan) ([]*types.Plan, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Plan, error)
	// GetByIDForUpdate takes a row lock; call inside a transaction.
	GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Plan, error)
	GetByBriefAndAgency(dbc dbctx.Context, briefID, agencyID uuid.UUID) (*types.Plan, error)
	ListByBrief(dbc dbctx.Context, briefID uuid.UUID) ([]*types.Plan, error)
	ListByBriefs(dbc dbctx.Context, briefIDs []uuid.UUID) ([]*types.Plan, error)
	Save(dbc dbctx.Context, plan *types.Plan) error
}

type planRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	return &planRepo{db: db, log: baseLog.With("repo", "PlanRepo")}
}

func (r *planRepo) Create(dbc dbctx.Context, plans []*types.Plan) ([]*types.Plan, error) {
	if len(plans) == 0 {
		return []*types.Plan{}, nil
	}
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).Create(&plans).Error; err != nil {
		return nil, dberr.Map(err, "plan not found")
	}
	return plans, nil
}

func (r *planRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Plan, error) {
	var plan types.Plan
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		First(&plan, "id = ?", id).Error; err != nil {
		return nil, dberr.Map(err, "plan not found")
	}
	return &plan, nil
}

func (r *planRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Plan, error) {
	var plan types.Plan
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&plan, "id = ?", id).Error; err != nil {
		return nil, dberr.Map(err, "plan not found")
	}
	return &plan, nil
}

func (r *planRepo) GetByBriefAndAgency(dbc dbctx.Context, briefID, agencyID uuid.UUID) (*types.Plan, error) {
	var plan types.Plan
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		First(&plan, "brief_id = ? AND agency_id = ?", briefID, agencyID).Error; err != nil {
		return nil, dberr.Map(err, "plan not found")
	}
	return &plan, nil
}

func (r *planRepo) ListByBrief(dbc dbctx.Context, briefID uuid.UUID) ([]*types.Plan, error) {
	var results []*types.Plan
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		Where("brief_id = ?", briefID).
		Order("created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planRepo) ListByBriefs(dbc dbctx.Context, briefIDs []uuid.UUID) ([]*types.Plan, error) {
	if len(briefIDs) == 0 {
		return nil, nil
	}
	var results []*types.Plan
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		Where("brief_id IN ?", briefIDs).
		Order("created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Save writes every column, including cleared-to-null path and mapping
// fields; partial updates would silently keep stale pipeline state.
func (r *planRepo) Save(dbc dbctx.Context, plan *types.Plan) error {
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).Save(plan).Error; err != nil {
		return dberr.Map(err, "plan not found")
	}
	return nil
}
