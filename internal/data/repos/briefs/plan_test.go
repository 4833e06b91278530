package briefs

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/repos/testutil"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/apierr"
)

func TestPlanRepoCreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPlanRepo(db, testutil.Logger(t))

	client := testutil.SeedClient(t, ctx, tx, "acme-client-"+uuid.New().String()[:8])
	agency := testutil.SeedAgency(t, ctx, tx, "acme-agency-"+uuid.New().String()[:8])
	admin := testutil.SeedClientUser(t, ctx, tx, client.ID)
	brief := testutil.SeedBrief(t, ctx, tx, client.ID, admin.ID)

	plans, err := repo.Create(dbc, []*types.Plan{{
		BriefID:   brief.ID,
		AgencyID:  agency.ID,
		Status:    types.PlanStatusDraft,
		CreatedBy: admin.ID,
		UpdatedBy: admin.ID,
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("Create: want 1 plan, got %d", len(plans))
	}

	got, err := repo.GetByID(dbc, plans[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.VersionNumber != 1 {
		t.Fatalf("new plan version = %d, want 1", got.VersionNumber)
	}
	if got.Status != types.PlanStatusDraft {
		t.Fatalf("new plan status = %s, want DRAFT", got.Status)
	}

	byPair, err := repo.GetByBriefAndAgency(dbc, brief.ID, agency.ID)
	if err != nil {
		t.Fatalf("GetByBriefAndAgency: %v", err)
	}
	if byPair.ID != plans[0].ID {
		t.Fatalf("GetByBriefAndAgency: got %s, want %s", byPair.ID, plans[0].ID)
	}
}

func TestPlanRepoGetByIDNotFound(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewPlanRepo(db, testutil.Logger(t))

	_, err := repo.GetByID(dbc, uuid.New())
	if !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("GetByID on missing plan: want NotFound, got %v", err)
	}
}

func TestPlanRepoDuplicateAgencyConflict(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPlanRepo(db, testutil.Logger(t))

	client := testutil.SeedClient(t, ctx, tx, "dup-client-"+uuid.New().String()[:8])
	agency := testutil.SeedAgency(t, ctx, tx, "dup-agency-"+uuid.New().String()[:8])
	admin := testutil.SeedClientUser(t, ctx, tx, client.ID)
	brief := testutil.SeedBrief(t, ctx, tx, client.ID, admin.ID)
	testutil.SeedPlan(t, ctx, tx, brief.ID, agency.ID, admin.ID)

	_, err := repo.Create(dbc, []*types.Plan{{
		BriefID:   brief.ID,
		AgencyID:  agency.ID,
		Status:    types.PlanStatusDraft,
		CreatedBy: admin.ID,
		UpdatedBy: admin.ID,
	}})
	if !apierr.IsKind(err, apierr.KindConflict) {
		t.Fatalf("duplicate (brief, agency) plan: want Conflict, got %v", err)
	}
}

func TestPlanRepoSaveClearsPipelineFields(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPlanRepo(db, testutil.Logger(t))

	client := testutil.SeedClient(t, ctx, tx, "save-client-"+uuid.New().String()[:8])
	agency := testutil.SeedAgency(t, ctx, tx, "save-agency-"+uuid.New().String()[:8])
	admin := testutil.SeedClientUser(t, ctx, tx, client.ID)
	brief := testutil.SeedBrief(t, ctx, tx, client.ID, admin.ID)
	plan := testutil.SeedPlan(t, ctx, tx, brief.ID, agency.ID, admin.ID)

	plan.RawFilePath = testutil.PtrString("briefs/b/p/raw/plan.xlsx")
	plan.FlatFilePath = testutil.PtrString("briefs/b/p/flat/plan_flat.xlsx")
	plan.AIMappings = []byte(`[{"source_column_index":0,"target_field":"Date"}]`)
	if err := repo.Save(dbc, plan); err != nil {
		t.Fatalf("Save with paths: %v", err)
	}

	plan.ResetPipeline()
	plan.VersionNumber = 2
	if err := repo.Save(dbc, plan); err != nil {
		t.Fatalf("Save after reset: %v", err)
	}

	got, err := repo.GetByID(dbc, plan.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FlatFilePath != nil || got.ValidatedFilePath != nil {
		t.Fatalf("derived paths survived the save: flat=%v validated=%v", got.FlatFilePath, got.ValidatedFilePath)
	}
	if len(got.AIMappings) != 0 && string(got.AIMappings) != "null" {
		t.Fatalf("ai_mappings survived the save: %s", got.AIMappings)
	}
	if got.RawFilePath == nil {
		t.Fatalf("raw path must survive the save")
	}
	if got.VersionNumber != 2 {
		t.Fatalf("version = %d, want 2", got.VersionNumber)
	}
}

func TestPlanRepoListByBrief(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPlanRepo(db, testutil.Logger(t))

	client := testutil.SeedClient(t, ctx, tx, "list-client-"+uuid.New().String()[:8])
	admin := testutil.SeedClientUser(t, ctx, tx, client.ID)
	brief := testutil.SeedBrief(t, ctx, tx, client.ID, admin.ID)
	for i := 0; i < 3; i++ {
		agency := testutil.SeedAgency(t, ctx, tx, "list-agency-"+uuid.New().String()[:8])
		testutil.SeedPlan(t, ctx, tx, brief.ID, agency.ID, admin.ID)
	}

	plans, err := repo.ListByBrief(dbc, brief.ID)
	if err != nil {
		t.Fatalf("ListByBrief: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("ListByBrief: want 3 plans, got %d", len(plans))
	}
}
