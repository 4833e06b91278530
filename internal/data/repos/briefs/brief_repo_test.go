package briefs

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/repos/testutil"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
)

func TestBriefRepoListByAgency(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewBriefRepo(db, testutil.Logger(t))

	client := testutil.SeedClient(t, ctx, tx, "bl-client-"+uuid.New().String()[:8])
	admin := testutil.SeedClientUser(t, ctx, tx, client.ID)
	mine := testutil.SeedAgency(t, ctx, tx, "bl-mine-"+uuid.New().String()[:8])
	other := testutil.SeedAgency(t, ctx, tx, "bl-other-"+uuid.New().String()[:8])

	targeted := testutil.SeedBrief(t, ctx, tx, client.ID, admin.ID)
	testutil.SeedPlan(t, ctx, tx, targeted.ID, mine.ID, admin.ID)
	testutil.SeedPlan(t, ctx, tx, targeted.ID, other.ID, admin.ID)

	unrelated := testutil.SeedBrief(t, ctx, tx, client.ID, admin.ID)
	testutil.SeedPlan(t, ctx, tx, unrelated.ID, other.ID, admin.ID)

	got, err := repo.ListByAgency(dbc, mine.ID)
	if err != nil {
		t.Fatalf("ListByAgency: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListByAgency: want 1 brief, got %d", len(got))
	}
	if got[0].ID != targeted.ID {
		t.Fatalf("ListByAgency: got brief %s, want %s", got[0].ID, targeted.ID)
	}
}

func TestBriefRepoUpdateStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewBriefRepo(db, testutil.Logger(t))

	client := testutil.SeedClient(t, ctx, tx, "us-client-"+uuid.New().String()[:8])
	admin := testutil.SeedClientUser(t, ctx, tx, client.ID)
	brief := testutil.SeedBrief(t, ctx, tx, client.ID, admin.ID)

	if err := repo.UpdateStatus(dbc, brief.ID, types.BriefStatusApproved, admin.ID); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	got, err := repo.GetByID(dbc, brief.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != types.BriefStatusApproved {
		t.Fatalf("status = %s, want APPROVED", got.Status)
	}
	if got.UpdatedBy != admin.ID {
		t.Fatalf("updated_by = %s, want %s", got.UpdatedBy, admin.ID)
	}
}

func TestHistoryRepoAppendAndOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewHistoryRepo(db, testutil.Logger(t))

	client := testutil.SeedClient(t, ctx, tx, "h-client-"+uuid.New().String()[:8])
	agency := testutil.SeedAgency(t, ctx, tx, "h-agency-"+uuid.New().String()[:8])
	admin := testutil.SeedClientUser(t, ctx, tx, client.ID)
	brief := testutil.SeedBrief(t, ctx, tx, client.ID, admin.ID)
	plan := testutil.SeedPlan(t, ctx, tx, brief.ID, agency.ID, admin.ID)

	for _, action := range []string{types.ActionNewBriefCreated, types.ActionFileUploaded, types.ActionPlanSubmitted} {
		if _, err := repo.Append(dbc, &types.HistoryTrail{
			PlanID:    plan.ID,
			Action:    action,
			ActorID:   admin.ID,
			ActorName: admin.Name,
			Detail:    "entry",
		}); err != nil {
			t.Fatalf("Append %s: %v", action, err)
		}
	}

	entries, err := repo.ListByPlan(dbc, plan.ID)
	if err != nil {
		t.Fatalf("ListByPlan: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("ListByPlan: want 3 entries, got %d", len(entries))
	}
	want := []string{types.ActionNewBriefCreated, types.ActionFileUploaded, types.ActionPlanSubmitted}
	for i, entry := range entries {
		if entry.Action != want[i] {
			t.Fatalf("entry %d action = %s, want %s", i, entry.Action, want[i])
		}
	}
}
