package briefs

import (
	"testing"

	"github.com/google/uuid"
)

func plansWith(statuses ...PlanStatus) []Plan {
	out := make([]Plan, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Plan{Status: s})
	}
	return out
}

func TestAggregateStatus(t *testing.T) {
	cases := []struct {
		name     string
		current  BriefStatus
		statuses []PlanStatus
		want     BriefStatus
	}{
		{"all approved", BriefStatusActive, []PlanStatus{PlanStatusApproved, PlanStatusApproved}, BriefStatusApproved},
		{"one rejected", BriefStatusActive, []PlanStatus{PlanStatusApproved, PlanStatusRejected}, BriefStatusRejected},
		{"rejected among drafts", BriefStatusActive, []PlanStatus{PlanStatusDraft, PlanStatusRejected}, BriefStatusRejected},
		{"still in flight", BriefStatusActive, []PlanStatus{PlanStatusApproved, PlanStatusPendingReview}, BriefStatusActive},
		{"all drafts", BriefStatusActive, []PlanStatus{PlanStatusDraft, PlanStatusDraft}, BriefStatusActive},
		{"single approved", BriefStatusActive, []PlanStatus{PlanStatusApproved}, BriefStatusApproved},
		{"no plans leaves current", BriefStatusApproved, nil, BriefStatusApproved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AggregateStatus(tc.current, plansWith(tc.statuses...))
			if got != tc.want {
				t.Fatalf("AggregateStatus(%v, %v) = %v, want %v", tc.current, tc.statuses, got, tc.want)
			}
		})
	}
}

func TestResetPipelineClearsDerivedState(t *testing.T) {
	flat := "x/flat/plan_flat.xlsx"
	validated := "x/validated-columns/plan_final.xlsx"
	raw := "x/raw/plan.xlsx"
	p := Plan{
		RawFilePath:       &raw,
		FlatFilePath:      &flat,
		ValidatedFilePath: &validated,
		AIMappings:        []byte(`[{"source_column_index":0}]`),
		HumanMappings:     []byte(`[{"source_column_index":0}]`),
		Status:            PlanStatusPendingReview,
	}
	p.ResetPipeline()

	if p.FlatFilePath != nil || p.ValidatedFilePath != nil {
		t.Fatalf("derived paths not cleared: flat=%v validated=%v", p.FlatFilePath, p.ValidatedFilePath)
	}
	if p.AIMappings != nil || p.HumanMappings != nil {
		t.Fatalf("mapping sets not cleared")
	}
	if p.RawFilePath == nil {
		t.Fatalf("raw path must survive a reset")
	}
	if p.Status != PlanStatusPendingReview {
		t.Fatalf("reset must not touch status, got %v", p.Status)
	}
}

func TestIsSupportedReviewStatus(t *testing.T) {
	for _, ok := range []string{"APPROVED", "REJECTED"} {
		if !IsSupportedReviewStatus(ok) {
			t.Fatalf("expected %q to be reviewable", ok)
		}
	}
	for _, bad := range []string{"DRAFT", "PENDING_REVIEW", "approved", ""} {
		if IsSupportedReviewStatus(bad) {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestObjectPaths(t *testing.T) {
	briefID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	planID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	if got, want := RawObject("briefs", briefID, planID), "briefs/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222/raw/plan.xlsx"; got != want {
		t.Fatalf("RawObject = %q, want %q", got, want)
	}
	if got, want := FlatObject("briefs", briefID, planID), "briefs/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222/flat/plan_flat.xlsx"; got != want {
		t.Fatalf("FlatObject = %q, want %q", got, want)
	}
	if got, want := ValidatedObject("briefs", briefID, planID), "briefs/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222/validated-columns/plan_final.xlsx"; got != want {
		t.Fatalf("ValidatedObject = %q, want %q", got, want)
	}
	if got, want := LegacyRawObject("briefs", briefID, planID), "briefs/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222/plan.xlsx"; got != want {
		t.Fatalf("LegacyRawObject = %q, want %q", got, want)
	}
}
