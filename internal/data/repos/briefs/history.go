package briefs

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/dberr"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

// HistoryRepo is append-only: entries are never updated or deleted.
type HistoryRepo interface {
	Append(dbc dbctx.Context, entry *types.HistoryTrail) (*types.HistoryTrail, error)
	ListByPlan(dbc dbctx.Context, planID uuid.UUID) ([]*types.HistoryTrail, error)
	ListByPlans(dbc dbctx.Context, planIDs []uuid.UUID) ([]*types.HistoryTrail, error)
}

type historyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) HistoryRepo {
	return &historyRepo{db: db, log: baseLog.With("repo", "HistoryRepo")}
}

func (r *historyRepo) Append(dbc dbctx.Context, entry *types.HistoryTrail) (*types.HistoryTrail, error) {
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).Create(entry).Error; err != nil {
		return nil, dberr.Map(err, "history entry not found")
	}
	return entry, nil
}

func (r *historyRepo) ListByPlan(dbc dbctx.Context, planID uuid.UUID) ([]*types.HistoryTrail, error) {
	return r.ListByPlans(dbc, []uuid.UUID{planID})
}

func (r *historyRepo) ListByPlans(dbc dbctx.Context, planIDs []uuid.UUID) ([]*types.HistoryTrail, error) {
	var results []*types.HistoryTrail
	if len(planIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		Where("plan_id IN ?", planIDs).
		Order("created_at asc, id asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
