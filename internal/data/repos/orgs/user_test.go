package orgs

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/repos/testutil"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/apierr"
)

func TestUserRepoGetByEmail(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	agency := testutil.SeedAgency(t, ctx, tx, "u-agency-"+uuid.New().String()[:8])
	seeded := testutil.SeedAgencyUser(t, ctx, tx, agency.ID)

	got, err := repo.GetByEmail(dbc, seeded.Email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != seeded.ID {
		t.Fatalf("GetByEmail: got %s, want %s", got.ID, seeded.ID)
	}
	if got.Role != types.RoleAgencyMember {
		t.Fatalf("role = %s, want AGENCY_MEMBER", got.Role)
	}
	if got.AgencyID == nil || *got.AgencyID != agency.ID {
		t.Fatalf("agency_id = %v, want %s", got.AgencyID, agency.ID)
	}

	_, err = repo.GetByEmail(dbc, "nobody@test.local")
	if !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("missing user: want NotFound, got %v", err)
	}
}

func TestAgencyRepoGetByIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewAgencyRepo(db, testutil.Logger(t))

	a := testutil.SeedAgency(t, ctx, tx, "ga-a-"+uuid.New().String()[:8])
	b := testutil.SeedAgency(t, ctx, tx, "ga-b-"+uuid.New().String()[:8])

	got, err := repo.GetByIDs(dbc, []uuid.UUID{a.ID, b.ID, uuid.New()})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetByIDs: want 2 agencies, got %d", len(got))
	}

	empty, err := repo.GetByIDs(dbc, nil)
	if err != nil {
		t.Fatalf("GetByIDs(nil): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("GetByIDs(nil): want empty, got %d", len(empty))
	}
}
