package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/apierr"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/ctxutil"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/mapping"
)

func TestReviewRequiresExactlyOneOfStatusOrComment(t *testing.T) {
	svc := &planService{}
	ctx := ctxutil.WithActor(context.Background(), &ctxutil.Actor{
		UserID: uuid.New(),
		Name:   "Reviewer",
		Role:   types.RoleClientAdmin,
	})

	cases := []struct {
		name string
		in   *ReviewInput
	}{
		{"both", &ReviewInput{Status: "APPROVED", Comment: "looks good"}},
		{"neither", &ReviewInput{}},
		{"nil body", nil},
		{"whitespace only", &ReviewInput{Status: "  ", Comment: "\t"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Review(ctx, uuid.New(), uuid.New(), tc.in)
			if !apierr.IsKind(err, apierr.KindValidation) {
				t.Fatalf("want ValidationFailed, got %v", err)
			}
		})
	}
}

func TestReviewRequiresActor(t *testing.T) {
	svc := &planService{}
	_, err := svc.Review(context.Background(), uuid.New(), uuid.New(), &ReviewInput{Status: "APPROVED"})
	if !apierr.IsKind(err, apierr.KindUnauthorized) {
		t.Fatalf("want Unauthorized, got %v", err)
	}
}

func TestMergeMappingsOverrideWinsPerColumn(t *testing.T) {
	ai := []mapping.ColumnMapping{
		{SourceColumn: "DATE", SourceColumnIndex: 0, TargetField: "Date"},
		{SourceColumn: "CH", SourceColumnIndex: 1, TargetField: "Channel"},
		{SourceColumn: "IMPS", SourceColumnIndex: 2, TargetField: "Impressions"},
	}
	overrides := []types.HumanMapping{
		{SourceColumnIndex: 1, TargetField: "Channel Name"},
	}

	merged := mergeMappings(ai, overrides)

	want := []types.HumanMapping{
		{SourceColumnIndex: 0, TargetField: "Date"},
		{SourceColumnIndex: 1, TargetField: "Channel Name"},
		{SourceColumnIndex: 2, TargetField: "Impressions"},
	}
	if len(merged) != len(want) {
		t.Fatalf("merged length=%d, want %d", len(merged), len(want))
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Fatalf("merged[%d]=%+v, want %+v", i, merged[i], want[i])
		}
	}
}

func TestMergeMappingsAppendsNovelColumnsInPayloadOrder(t *testing.T) {
	ai := []mapping.ColumnMapping{
		{SourceColumnIndex: 0, TargetField: "Date"},
	}
	overrides := []types.HumanMapping{
		{SourceColumnIndex: 7, TargetField: "Cost"},
		{SourceColumnIndex: 3, TargetField: "Channel"},
	}

	merged := mergeMappings(ai, overrides)

	if len(merged) != 3 {
		t.Fatalf("merged length=%d, want 3", len(merged))
	}
	if merged[0].SourceColumnIndex != 0 || merged[0].TargetField != "Date" {
		t.Fatalf("merged[0]=%+v, want the untouched ai mapping first", merged[0])
	}
	if merged[1].SourceColumnIndex != 7 || merged[2].SourceColumnIndex != 3 {
		t.Fatalf("novel columns out of payload order: %+v", merged[1:])
	}
}

func TestMergeMappingsDuplicateOverrideLastWins(t *testing.T) {
	overrides := []types.HumanMapping{
		{SourceColumnIndex: 4, TargetField: "Spend"},
		{SourceColumnIndex: 4, TargetField: "Cost"},
	}

	merged := mergeMappings(nil, overrides)

	if len(merged) != 1 {
		t.Fatalf("merged length=%d, want 1 entry for the duplicated column", len(merged))
	}
	if merged[0].TargetField != "Cost" {
		t.Fatalf("merged[0].TargetField=%q, want the later override %q", merged[0].TargetField, "Cost")
	}
}

func TestMergeMappingsNoOverridesKeepsAIResult(t *testing.T) {
	ai := []mapping.ColumnMapping{
		{SourceColumnIndex: 2, TargetField: "Impressions"},
		{SourceColumnIndex: 0, TargetField: "Date"},
	}

	merged := mergeMappings(ai, nil)

	if len(merged) != 2 {
		t.Fatalf("merged length=%d, want 2", len(merged))
	}
	if merged[0].SourceColumnIndex != 2 || merged[1].SourceColumnIndex != 0 {
		t.Fatalf("ai ordering not preserved: %+v", merged)
	}
}

func TestMissingMandatory(t *testing.T) {
	cases := []struct {
		name      string
		mandatory []string
		mapped    []string
		want      []string
	}{
		{
			name:      "all_covered",
			mandatory: []string{"Date", "Channel", "Impressions", "Cost"},
			mapped:    []string{"Cost", "Date", "Impressions", "Channel", "Region"},
			want:      []string{},
		},
		{
			name:      "two_missing_in_schema_order",
			mandatory: []string{"Date", "Channel", "Impressions", "Cost"},
			mapped:    []string{"Date", "Impressions"},
			want:      []string{"Channel", "Cost"},
		},
		{
			name:      "nothing_mapped",
			mandatory: []string{"Date"},
			mapped:    nil,
			want:      []string{"Date"},
		},
		{
			name:      "case_sensitive",
			mandatory: []string{"Date"},
			mapped:    []string{"date"},
			want:      []string{"Date"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := missingMandatory(tc.mandatory, tc.mapped)
			if len(got) != len(tc.want) {
				t.Fatalf("missing=%v, want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("missing=%v, want %v", got, tc.want)
				}
			}
		})
	}
}
