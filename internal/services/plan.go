package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/repos"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/domain/briefs"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/planlock"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/apierr"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/ctxutil"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/envutil"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/gcs"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/mapping"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/xlsx"
)

// xlsxContentType is signed into upload URLs; the agency's PUT must send the
// same Content-Type header or the V4 signature check rejects it.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PlanDetail is the plan record plus everything the review UI renders around
// it: the audit history, a signed view URL per existing artifact, and the
// blob listing under the plan's storage prefix.
type PlanDetail struct {
	*types.Plan
	RawFileURL       string   `json:"raw_file_url,omitempty"`
	FlatFileURL      string   `json:"flat_file_url,omitempty"`
	ValidatedFileURL string   `json:"validated_file_url,omitempty"`
	StoredObjects    []string `json:"stored_objects"`
}

// UploadTicket is the response to a request-upload call. The record is
// already committed when the ticket is issued; the agency PUTs the workbook
// to UploadURL afterwards.
type UploadTicket struct {
	UploadURL     string `json:"upload_url"`
	ObjectPath    string `json:"object_path"`
	VersionNumber int    `json:"version_number"`
	ContentType   string `json:"content_type"`
}

type UpdateColumnsInput struct {
	Mappings []types.HumanMapping `json:"mappings"`
}

type SubmitPlanInput struct {
	Comment string `json:"comment"`
}

// ReviewInput carries exactly one of Status or Comment; sending both or
// neither is a validation error.
type ReviewInput struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

/// ReviewOutcome reports what the review changed: the plan as committed, the
// brief status after aggregation, and the appended ledger entry.
type ReviewOutcome struct {
	Plan        *types.Plan         `json:"plan"`
	BriefStatus types.BriefStatus   `json:"brief_status"`
	Entry       *types.HistoryTrail `json:"history"`
}

type PlanService interface {
	Get(ctx context.Context, briefID, planID uuid.UUID) (*PlanDetail, error)
	RequestUpload(ctx context.Context, briefID, planID uuid.UUID) (*UploadTicket, error)
	ExtractColumns(ctx context.Context, briefID, planID uuid.UUID) (*types.Plan, error)
	UpdateColumns(ctx context.Context, briefID, planID uuid.UUID, in *UpdateColumnsInput) (*types.Plan, error)
	Submit(ctx context.Context, briefID, planID uuid.UUID, in *SubmitPlanInput) (*types.Plan, error)
	Review(ctx context.Context, briefID, planID uuid.UUID, in *ReviewInput) (*ReviewOutcome, error)
}

type planService struct {
	log         *logger.Logger
	db          *gorm.DB
	plans       repos.PlanRepo
	briefs      repos.BriefRepo
	history     repos.HistoryRepo
	agencies    repos.AgencyRepo
	store       gcs.Store
	mapper      mapping.Client
	schema      SchemaService
	locks       planlock.Locker
	briefSvc    BriefService
	storageRoot string
}

func NewPlanService(
	db *gorm.DB,
	log *logger.Logger,
	planRepo repos.PlanRepo,
	briefRepo repos.BriefRepo,
	historyRepo repos.HistoryRepo,
	agencyRepo repos.AgencyRepo,
	store gcs.Store,
	mapper mapping.Client,
	schema SchemaService,
	locks planlock.Locker,
	briefSvc BriefService,
) PlanService {
	return &planService{
		log:         log.With("service", "PlanService"),
		db:          db,
		plans:       planRepo,
		briefs:      briefRepo,
		history:     historyRepo,
		agencies:    agencyRepo,
		store:       store,
		mapper:      mapper,
		schema:      schema,
		locks:       locks,
		briefSvc:    briefSvc,
		storageRoot: envutil.String("PLAN_STORAGE_ROOT", "briefs"),
	}
}

func (s *planService) Get(ctx context.Context, briefID, planID uuid.UUID) (*PlanDetail, error) {
	actor := ctxutil.GetActor(ctx)
	if actor == nil {
		return nil, apierr.Unauthorized("not authenticated")
	}
	dbc := dbctx.Context{Ctx: ctx}

	plan, err := s.plans.GetByID(dbc, planID)
	if err != nil {
		return nil, err
	}
	if plan.BriefID != briefID {
		return nil, apierr.NotFound("plan not found")
	}
	brief, err := s.briefs.GetByID(dbc, plan.BriefID)
	if err != nil {
		return nil, err
	}
	switch {
	case actor.Role == types.RoleClientAdmin && actor.ClientID != nil && brief.ClientID == *actor.ClientID:
	case actor.Role == types.RoleAgencyMember && actor.AgencyID != nil && plan.AgencyID == *actor.AgencyID:
	default:
		return nil, apierr.Forbidden("plan belongs to another organization")
	}

	entries, err := s.history.ListByPlan(dbc, planID)
	if err != nil {
		return nil, err
	}
	plan.History = make([]types.HistoryTrail, 0, len(entries))
	for _, e := range entries {
		plan.History = append(plan.History, *e)
	}
	agencies, err := s.agencies.GetByIDs(dbc, []uuid.UUID{plan.AgencyID})
	if err != nil {
		return nil, err
	}
	if len(agencies) == 1 {
		plan.Agency = agencies[0]
	}

	detail := &PlanDetail{Plan: plan}
	if plan.RawFilePath != nil {
		if detail.RawFileURL, err = s.store.SignedViewURL(ctx, *plan.RawFilePath); err != nil {
			return nil, err
		}
	}
	if plan.FlatFilePath != nil {
		if detail.FlatFileURL, err = s.store.SignedViewURL(ctx, *plan.FlatFilePath); err != nil {
			return nil, err
		}
	}
	if plan.ValidatedFilePath != nil {
		if detail.ValidatedFileURL, err = s.store.SignedViewURL(ctx, *plan.ValidatedFilePath); err != nil {
			return nil, err
		}
	}
	objects, err := s.store.List(ctx, briefs.PlanPrefix(s.storageRoot, plan.BriefID, plan.ID))
	if err != nil {
		return nil, err
	}
	detail.StoredObjects = objects
	return detail, nil
}

func (s *planService) RequestUpload(ctx context.Context, briefID, planID uuid.UUID) (*UploadTicket, error) {
	actor := ctxutil.GetActor(ctx)
	if actor == nil {
		return nil, apierr.Unauthorized("not authenticated")
	}
	plan, err := s.ownedPlan(dbctx.Context{Ctx: ctx}, briefID, planID, actor)
	if err != nil {
		return nil, err
	}

	object := briefs.RawObject(s.storageRoot, plan.BriefID, plan.ID)
	uploadURL, err := s.store.SignedUploadURL(ctx, object, xlsxContentType)
	if err != nil {
		return nil, err
	}

	var ticket *UploadTicket
	txErr := s.db.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: txx}
		locked, err := s.plans.GetByIDForUpdate(dbc, planID)
		if err != nil {
			return err
		}
		detail := "Initial plan file uploaded. Path: " + object
		if locked.RawFilePath != nil {
			locked.VersionNumber++
			detail = fmt.Sprintf("New version (v%d) uploaded. Path: %s", locked.VersionNumber, object)
		}
		locked.RawFilePath = &object
		locked.ResetPipeline()
		locked.UpdatedBy = actor.UserID
		if err := s.plans.Save(dbc, locked); err != nil {
			return err
		}
		if _, err := s.history.Append(dbc, &types.HistoryTrail{
			PlanID:    locked.ID,
			Action:    types.ActionFileUploaded,
			ActorID:   actor.UserID,
			ActorName: actor.Name,
			Detail:    detail,
		}); err != nil {
			return err
		}
		ticket = &UploadTicket{
			UploadURL:     uploadURL,
			ObjectPath:    object,
			VersionNumber: locked.VersionNumber,
			ContentType:   xlsxContentType,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	s.log.Info("upload url issued",
		"plan_id", planID,
		"version", ticket.VersionNumber,
		"object", object,
	)
	return ticket, nil
}

func (s *planService) ExtractColumns(ctx context.Context, briefID, planID uuid.UUID) (*types.Plan, error) {
	actor := ctxutil.GetActor(ctx)
	if actor == nil {
		return nil, apierr.Unauthorized("not authenticated")
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.ownedPlan(dbc, briefID, planID, actor); err != nil {
		return nil, err
	}
	release, err := s.acquireLock(ctx, planID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-read under the lease; the row may have moved while we waited on auth.
	plan, err := s.plans.GetByID(dbc, planID)
	if err != nil {
		return nil, err
	}
	if plan.RawFilePath == nil {
		return nil, apierr.Validation("plan has no uploaded file; request an upload first")
	}

	var (
		schema    *Schema
		workbook  []byte
		rawObject string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := s.schema.Load(gctx)
		if err != nil {
			return err
		}
		schema = loaded
		return nil
	})
	g.Go(func() error {
		data, object, err := s.resolveRawWorkbook(gctx, plan)
		if err != nil {
			return err
		}
		workbook, rawObject = data, object
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result, err := s.mapper.MapColumns(ctx, s.store.URI(rawObject))
	if err != nil {
		return nil, err
	}
	if missing := missingMandatory(schema.Mandatory, result.TargetFields()); len(missing) > 0 {
		return nil, apierr.ValidationDetails("mapped columns do not cover the mandatory schema fields", map[string]interface{}{
			"missing_mandatory_fields": missing,
		})
	}

	renames := make([]xlsx.Rename, 0, len(result.Mappings))
	for _, m := range result.Mappings {
		renames = append(renames, xlsx.Rename{ColumnIndex: m.SourceColumnIndex, Header: m.TargetField})
	}
	flat, err := xlsx.Flatten(workbook, result.HeaderRow(), renames)
	if err != nil {
		return nil, apierr.Validation("uploaded workbook could not be processed: " + err.Error())
	}
	flatObject := briefs.FlatObject(s.storageRoot, plan.BriefID, plan.ID)
	if err := s.store.Upload(ctx, flatObject, xlsxContentType, bytes.NewReader(flat)); err != nil {
		return nil, err
	}
	aiJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode ai mappings: %w", err)
	}

	var updated *types.Plan
	txErr := s.db.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: txx}
		locked, err := s.plans.GetByIDForUpdate(dbc, planID)
		if err != nil {
			return err
		}
		locked.FlatFilePath = &flatObject
		locked.AIMappings = datatypes.JSON(aiJSON)
		locked.UpdatedBy = actor.UserID
		if err := s.plans.Save(dbc, locked); err != nil {
			return err
		}
		if _, err := s.history.Append(dbc, &types.HistoryTrail{
			PlanID:    locked.ID,
			Action:    types.ActionColumnsExtract,
			ActorID:   actor.UserID,
			ActorName: actor.Name,
			Detail: fmt.Sprintf("AI mapped %d of %d columns. Path: %s",
				len(result.Mappings), len(result.Mappings)+len(result.Unmapped), flatObject),
		}); err != nil {
			return err
		}
		updated = locked
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	s.log.Info("columns extracted",
		"plan_id", planID,
		"mapped", len(result.Mappings),
		"unmapped", len(result.Unmapped),
		"header_row", result.HeaderRow(),
	)
	return updated, nil
}

func (s *planService) UpdateColumns(ctx context.Context, briefID, planID uuid.UUID, in *UpdateColumnsInput) (*types.Plan, error) {
	actor := ctxutil.GetActor(ctx)
	if actor == nil {
		return nil, apierr.Unauthorized("not authenticated")
	}
	overrides := make([]types.HumanMapping, 0, len(in.Mappings))
	for _, m := range in.Mappings {
		m.TargetField = strings.TrimSpace(m.TargetField)
		if m.SourceColumnIndex < 0 || m.TargetField == "" {
			return nil, apierr.Validation("each mapping needs a non-negative source_column_index and a target_field")
		}
		overrides = append(overrides, m)
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.ownedPlan(dbc, briefID, planID, actor); err != nil {
		return nil, err
	}
	release, err := s.acquireLock(ctx, planID)
	if err != nil {
		return nil, err
	}
	defer release()

	plan, err := s.plans.GetByID(dbc, planID)
	if err != nil {
		return nil, err
	}
	if plan.FlatFilePath == nil {
		return nil, apierr.Validation("plan has no flat file; extract columns first")
	}

	var aiResult mapping.Result
	if len(plan.AIMappings) > 0 {
		if err := json.Unmarshal(plan.AIMappings, &aiResult); err != nil {
			return nil, fmt.Errorf("decode stored ai mappings: %w", err)
		}
	}
	merged := mergeMappings(aiResult.Mappings, overrides)

	flatBytes, err := s.store.Download(ctx, *plan.FlatFilePath)
	if err != nil {
		return nil, err
	}
	renames := make([]xlsx.Rename, 0, len(merged))
	for _, m := range merged {
		renames = append(renames, xlsx.Rename{ColumnIndex: m.SourceColumnIndex, Header: m.TargetField})
	}
	validated, err := xlsx.Flatten(flatBytes, 1, renames)
	if err != nil {
		return nil, apierr.Validation("flat workbook could not be processed: " + err.Error())
	}
	validatedObject := briefs.ValidatedObject(s.storageRoot, plan.BriefID, plan.ID)
	if err := s.store.Upload(ctx, validatedObject, xlsxContentType, bytes.NewReader(validated)); err != nil {
		return nil, err
	}
	humanJSON, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encode column mappings: %w", err)
	}

	var updatedPlan *types.Plan
	txErr := s.db.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: txx}
		locked, err := s.plans.GetByIDForUpdate(dbc, planID)
		if err != nil {
			return err
		}
		locked.ValidatedFilePath = &validatedObject
		locked.HumanMappings = datatypes.JSON(humanJSON)
		locked.UpdatedBy = actor.UserID
		if err := s.plans.Save(dbc, locked); err != nil {
			return err
		}
		if _, err := s.history.Append(dbc, &types.HistoryTrail{
			PlanID:    locked.ID,
			Action:    types.ActionColumnsUpdated,
			ActorID:   actor.UserID,
			ActorName: actor.Name,
			Detail:    fmt.Sprintf("Column mapping confirmed for %d columns. Path: %s", len(merged), validatedObject),
		}); err != nil {
			return err
		}
		updatedPlan = locked
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	s.log.Info("columns updated",
		"plan_id", planID,
		"overrides", len(overrides),
		"merged", len(merged),
	)
	return updatedPlan, nil
}

func (s *planService) Submit(ctx context.Context, briefID, planID uuid.UUID, in *SubmitPlanInput) (*types.Plan, error) {
	actor := ctxutil.GetActor(ctx)
	if actor == nil {
		return nil, apierr.Unauthorized("not authenticated")
	}
	if _, err := s.ownedPlan(dbctx.Context{Ctx: ctx}, briefID, planID, actor); err != nil {
		return nil, err
	}
	comment := ""
	if in != nil {
		comment = strings.TrimSpace(in.Comment)
	}

	var updated *types.Plan
	txErr := s.db.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: txx}
		locked, err := s.plans.GetByIDForUpdate(dbc, planID)
		if err != nil {
			return err
		}
		if locked.Status != types.PlanStatusDraft {
			return apierr.Validation("only draft plans can be submitted")
		}
		if locked.RawFilePath == nil {
			return apierr.Validation("plan has no uploaded file to submit")
		}
		now := time.Now().UTC()
		locked.Status = types.PlanStatusPendingReview
		locked.SubmittedAt = &now
		locked.UpdatedBy = actor.UserID
		if err := s.plans.Save(dbc, locked); err != nil {
			return err
		}
		detail := comment
		if detail == "" {
			detail = "Plan submitted for review."
		}
		if _, err := s.history.Append(dbc, &types.HistoryTrail{
			PlanID:    locked.ID,
			Action:    types.ActionPlanSubmitted,
			ActorID:   actor.UserID,
			ActorName: actor.Name,
			Detail:    detail,
		}); err != nil {
			return err
		}
		updated = locked
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	s.log.Info("plan submitted", "plan_id", planID, "brief_id", briefID)
	return updated, nil
}

func (s *planService) Review(ctx context.Context, briefID, planID uuid.UUID, in *ReviewInput) (*ReviewOutcome, error) {
	actor := ctxutil.GetActor(ctx)
	if actor == nil {
		return nil, apierr.Unauthorized("not authenticated")
	}
	status := ""
	comment := ""
	if in != nil {
		status = strings.TrimSpace(in.Status)
		comment = strings.TrimSpace(in.Comment)
	}
	if (status == "") == (comment == "") {
		return nil, apierr.Validation("provide exactly one of status or comment")
	}

	dbc := dbctx.Context{Ctx: ctx}
	plan, err := s.plans.GetByID(dbc, planID)
	if err != nil {
		return nil, err
	}
	if plan.BriefID != briefID {
		return nil, apierr.NotFound("plan not found")
	}
	brief, err := s.briefs.GetByID(dbc, plan.BriefID)
	if err != nil {
		return nil, err
	}

	if status != "" {
		return s.reviewStatus(ctx, actor, brief, plan, status)
	}
	return s.reviewComment(ctx, actor, brief, plan, comment)
}

// reviewStatus is the approval path: client-only, PENDING_REVIEW-only, and
// the plan update, ledger entry, and brief aggregation commit as one unit.
func (s *planService) reviewStatus(ctx context.Context, actor *ctxutil.Actor, brief *types.Brief, plan *types.Plan, status string) (*ReviewOutcome, error) {
	if actor.Role == types.RoleAgencyMember {
		return nil, apierr.Forbidden("agencies cannot change review status")
	}
	if actor.Role != types.RoleClientAdmin || actor.ClientID == nil || brief.ClientID != *actor.ClientID {
		return nil, apierr.Forbidden("only the brief's client can review plans")
	}
	if !briefs.IsSupportedReviewStatus(status) {
		return nil, apierr.Validation("status must be APPROVED or REJECTED")
	}

	var (
		updated     *types.Plan
		entry       *types.HistoryTrail
		briefStatus types.BriefStatus
	)
	txErr := s.db.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: txx}
		locked, err := s.plans.GetByIDForUpdate(dbc, plan.ID)
		if err != nil {
			return err
		}
		if locked.Status != types.PlanStatusPendingReview {
			return apierr.Validation("only plans pending review can be approved or rejected")
		}
		old := locked.Status
		locked.Status = types.PlanStatus(status)
		locked.UpdatedBy = actor.UserID
		if err := s.plans.Save(dbc, locked); err != nil {
			return err
		}
		if entry, err = s.history.Append(dbc, &types.HistoryTrail{
			PlanID:    locked.ID,
			Action:    types.ActionStatusChange,
			ActorID:   actor.UserID,
			ActorName: actor.Name,
			Detail:    fmt.Sprintf("Status changed from %s to %s.", old, locked.Status),
		}); err != nil {
			return err
		}
		if briefStatus, err = s.briefSvc.RecomputeStatus(dbc, locked.BriefID, actor.UserID); err != nil {
			return err
		}
		updated = locked
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	s.log.Info("plan reviewed",
		"plan_id", plan.ID,
		"brief_id", plan.BriefID,
		"status", status,
		"brief_status", briefStatus,
	)
	return &ReviewOutcome{Plan: updated, BriefStatus: briefStatus, Entry: entry}, nil
}

// reviewComment never touches status and never triggers aggregation; it is
// open to both sides of the conversation.
func (s *planService) reviewComment(ctx context.Context, actor *ctxutil.Actor, brief *types.Brief, plan *types.Plan, comment string) (*ReviewOutcome, error) {
	owningClient := actor.Role == types.RoleClientAdmin && actor.ClientID != nil && brief.ClientID == *actor.ClientID
	owningAgency := actor.Role == types.RoleAgencyMember && actor.AgencyID != nil && plan.AgencyID == *actor.AgencyID
	if !owningClient && !owningAgency {
		return nil, apierr.Forbidden("only the owning client or agency can comment on this plan")
	}
	entry, err := s.history.Append(dbctx.Context{Ctx: ctx}, &types.HistoryTrail{
		PlanID:    plan.ID,
		Action:    types.ActionCommentAdded,
		ActorID:   actor.UserID,
		ActorName: actor.Name,
		Detail:    "A new comment was added to the plan history.",
		Comment:   &comment,
	})
	if err != nil {
		return nil, err
	}
	return &ReviewOutcome{Plan: plan, BriefStatus: brief.Status, Entry: entry}, nil
}

// ownedPlan loads the plan and verifies the actor is an agency member of the
// plan's agency; every pipeline operation is agency-only.
func (s *planService) ownedPlan(dbc dbctx.Context, briefID, planID uuid.UUID, actor *ctxutil.Actor) (*types.Plan, error) {
	plan, err := s.plans.GetByID(dbc, planID)
	if err != nil {
		return nil, err
	}
	if plan.BriefID != briefID {
		return nil, apierr.NotFound("plan not found")
	}
	if actor.Role != types.RoleAgencyMember || actor.AgencyID == nil || *actor.AgencyID != plan.AgencyID {
		return nil, apierr.Forbidden("only the plan's agency can perform this operation")
	}
	return plan, nil
}

func (s *planService) acquireLock(ctx context.Context, planID uuid.UUID) (func(), error) {
	release, err := s.locks.Acquire(ctx, planlock.Key(planID))
	if err != nil {
		if errors.Is(err, planlock.ErrHeld) {
			return nil, apierr.Conflict("another operation is already running for this plan")
		}
		return nil, err
	}
	return release, nil
}

// resolveRawWorkbook downloads the plan's raw workbook. When the recorded
// path has no blob it falls back to the pre-stage-qualified legacy path and
// copies a hit forward so later reads find the canonical layout. The
// returned object name is whichever path actually holds the bytes.
func (s *planService) resolveRawWorkbook(ctx context.Context, plan *types.Plan) ([]byte, string, error) {
	object := *plan.RawFilePath
	data, err := s.store.Download(ctx, object)
	if err == nil {
		return data, object, nil
	}
	if !apierr.IsKind(err, apierr.KindNotFound) {
		return nil, "", err
	}
	legacy := briefs.LegacyRawObject(s.storageRoot, plan.BriefID, plan.ID)
	if legacy == object {
		return nil, "", err
	}
	data, lerr := s.store.Download(ctx, legacy)
	if lerr != nil {
		// Report the canonical miss, not the fallback's.
		return nil, "", err
	}
	if cerr := s.store.Copy(ctx, legacy, object); cerr != nil {
		s.log.Warn("legacy blob copy-forward failed",
			"plan_id", plan.ID,
			"from", legacy,
			"to", object,
			"error", cerr,
		)
		return data, legacy, nil
	}
	s.log.Info("legacy blob copied forward", "plan_id", plan.ID, "from", legacy, "to", object)
	return data, object, nil
}

// mergeMappings folds actor overrides into the AI result: an override wins
// for a column the AI mapped (AI list order kept), and overrides for columns
// the AI never saw append in payload order.
func mergeMappings(ai []mapping.ColumnMapping, overrides []types.HumanMapping) []types.HumanMapping {
	overrideByCol := make(map[int]string, len(overrides))
	for _, o := range overrides {
		overrideByCol[o.SourceColumnIndex] = o.TargetField
	}
	merged := make([]types.HumanMapping, 0, len(ai)+len(overrides))
	seen := make(map[int]bool, len(ai)+len(overrides))
	for _, m := range ai {
		target := m.TargetField
		if t, ok := overrideByCol[m.SourceColumnIndex]; ok {
			target = t
		}
		merged = append(merged, types.HumanMapping{SourceColumnIndex: m.SourceColumnIndex, TargetField: target})
		seen[m.SourceColumnIndex] = true
	}
	for _, o := range overrides {
		if seen[o.SourceColumnIndex] {
			continue
		}
		seen[o.SourceColumnIndex] = true
		merged = append(merged, types.HumanMapping{
			SourceColumnIndex: o.SourceColumnIndex,
			TargetField:       overrideByCol[o.SourceColumnIndex],
		})
	}
	return merged
}

func missingMandatory(mandatory, mapped []string) []string {
	have := make(map[string]bool, len(mapped))
	for _, f := range mapped {
		have[f] = true
	}
	missing := make([]string, 0)
	for _, f := range mandatory {
		if !have[f] {
			missing = append(missing, f)
		}
	}
	return missing
}
