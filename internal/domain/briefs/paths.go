package briefs

import (
	"fmt"

	"github.com/google/uuid"
)

// Blob object names are derivable from ids alone. Stage-qualified paths are
// canonical; LegacyRawObject is the pre-stage layout some older plans still
// point at and is read-only.

func RawObject(root string, briefID, planID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s/raw/plan.xlsx", root, briefID, planID)
}

func FlatObject(root string, briefID, planID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s/flat/plan_flat.xlsx", root, briefID, planID)
}

func ValidatedObject(root string, briefID, planID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s/validated-columns/plan_final.xlsx", root, briefID, planID)
}

func LegacyRawObject(root string, briefID, planID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s/plan.xlsx", root, briefID, planID)
}

// PlanPrefix bounds every artifact belonging to one plan.
func PlanPrefix(root string, briefID, planID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s/", root, briefID, planID)
}
