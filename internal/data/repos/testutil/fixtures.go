package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
)

func SeedClient(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Client {
	tb.Helper()
	c := &types.Client{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed client: %v", err)
	}
	return c
}

func SeedAgency(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Agency {
	tb.Helper()
	a := &types.Agency{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed agency: %v", err)
	}
	return a
}

func SeedClientUser(tb testing.TB, ctx context.Context, tx *gorm.DB, clientID uuid.UUID) *types.User {
	tb.Helper()
	u := &types.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("client-%s@test.local", uuid.New().String()[:8]),
		PasswordHash: "x",
		Name:         "Client Admin",
		Role:         types.RoleClientAdmin,
		ClientID:     &clientID,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed client user: %v", err)
	}
	return u
}

func SeedAgencyUser(tb testing.TB, ctx context.Context, tx *gorm.DB, agencyID uuid.UUID) *types.User {
	tb.Helper()
	u := &types.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("agency-%s@test.local", uuid.New().String()[:8]),
		PasswordHash: "x",
		Name:         "Agency Member",
		Role:         types.RoleAgencyMember,
		AgencyID:     &agencyID,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed agency user: %v", err)
	}
	return u
}

func SeedBrief(tb testing.TB, ctx context.Context, tx *gorm.DB, clientID, createdBy uuid.UUID) *types.Brief {
	tb.Helper()
	b := &types.Brief{
		ID:        uuid.New(),
		ClientID:  clientID,
		Name:      "summer campaign",
		Status:    types.BriefStatusActive,
		CreatedBy: createdBy,
		UpdatedBy: createdBy,
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed brief: %v", err)
	}
	return b
}

func SeedPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, briefID, agencyID, createdBy uuid.UUID) *types.Plan {
	tb.Helper()
	p := &types.Plan{
		ID:            uuid.New(),
		BriefID:       briefID,
		AgencyID:      agencyID,
		Status:        types.PlanStatusDraft,
		VersionNumber: 1,
		CreatedBy:     createdBy,
		UpdatedBy:     createdBy,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed plan: %v", err)
	}
	return p
}

func SeedHistory(tb testing.TB, ctx context.Context, tx *gorm.DB, planID, actorID uuid.UUID, action string) *types.HistoryTrail {
	tb.Helper()
	h := &types.HistoryTrail{
		ID:        uuid.New(),
		PlanID:    planID,
		Action:    action,
		ActorID:   actorID,
		ActorName: "Seed Actor",
		Detail:    "seeded",
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(h).Error; err != nil {
		tb.Fatalf("seed history: %v", err)
	}
	return h
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrString(v string) *string { return &v }
