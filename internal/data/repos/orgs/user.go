package orgs

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/dberr"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, user *types.User) (*types.User, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Create(dbc dbctx.Context, user *types.User) (*types.User, error) {
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).Create(user).Error; err != nil {
		return nil, dberr.Map(err, "user not found")
	}
	return user, nil
}

func (r *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	var user types.User
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		First(&user, "id = ?", id).Error; err != nil {
		return nil, dberr.Map(err, "user not found")
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	var user types.User
	if err := dbc.DB(r.db).WithContext(dbc.Ctx).
		First(&user, "email = ?", email).Error; err != nil {
		return nil, dberr.Map(err, "user not found")
	}
	return &user, nil
}
