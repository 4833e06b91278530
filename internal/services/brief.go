package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/repos"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/domain/briefs"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/apierr"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/ctxutil"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

// CreateBriefInput carries the campaign parameters plus the agencies the
// brief fans out to. Every agency id must resolve; a brief with a silently
// dropped agency would never aggregate to APPROVED.
type CreateBriefInput struct {
	Name                 string      `json:"name"`
	Brand                string      `json:"brand"`
	Budget               *float64    `json:"budget"`
	DemographicsAge      string      `json:"demographics_age"`
	DemographicsGender   string      `json:"demographics_gender"`
	NCCS                 string      `json:"nccs"`
	Psychographics       string      `json:"psychographics"`
	KeyMarkets           []string    `json:"key_markets"`
	P1Markets            []string    `json:"p1_markets"`
	P2Markets            []string    `json:"p2_markets"`
	EditDurations        []string    `json:"edit_durations"`
	ACD                  string      `json:"acd"`
	Dispersion           string      `json:"dispersion"`
	AdvertisementLink    string      `json:"advertisement_link"`
	CreativeLanguages    []string    `json:"creative_languages"`
	SchedulingPreference string      `json:"scheduling_preference"`
	Miscellaneous        string      `json:"miscellaneous"`
	Remarks              string      `json:"remarks"`
	AgencyIDs            []uuid.UUID `json:"agency_ids"`
}

// BriefDetail is a brief with the plan set the caller is allowed to see.
// Client admins see every plan; an agency member sees only their own, so the
// competing agency list never leaks across orgs.
type BriefDetail struct {
	*types.Brief
	TargetAgencies []*types.Agency `json:"target_agencies"`
}

type BriefService interface {
	Create(ctx context.Context, in *CreateBriefInput) (*BriefDetail, error)
	List(ctx context.Context) ([]*BriefDetail, error)
	Get(ctx context.Context, briefID uuid.UUID) (*BriefDetail, error)
	// RecomputeStatus re-derives the brief status from the full plan set and
	// persists it only when it actually changed. Runs on the caller's dbc so
	// a plan review and its aggregation commit or roll back together.
	RecomputeStatus(dbc dbctx.Context, briefID, updatedBy uuid.UUID) (types.BriefStatus, error)
}

type briefService struct {
	log      *logger.Logger
	db       *gorm.DB
	briefs   repos.BriefRepo
	plans    repos.PlanRepo
	history  repos.HistoryRepo
	agencies repos.AgencyRepo
}

func NewBriefService(
	db *gorm.DB,
	log *logger.Logger,
	briefRepo repos.BriefRepo,
	planRepo repos.PlanRepo,
	historyRepo repos.HistoryRepo,
	agencyRepo repos.AgencyRepo,
) BriefService {
	return &briefService{
		log:      log.With("service", "BriefService"),
		db:       db,
		briefs:   briefRepo,
		plans:    planRepo,
		history:  historyRepo,
		agencies: agencyRepo,
	}
}

func (s *briefService) Create(ctx context.Context, in *CreateBriefInput) (*BriefDetail, error) {
	actor := ctxutil.GetActor(ctx)
	if actor == nil {
		return nil, apierr.Unauthorized("not authenticated")
	}
	if actor.Role != types.RoleClientAdmin || actor.ClientID == nil {
		return nil, apierr.Forbidden("only client admins can create briefs")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apierr.Validation("brief name is required")
	}
	agencyIDs := dedupeIDs(in.AgencyIDs)
	if len(agencyIDs) == 0 {
		return nil, apierr.Validation("at least one target agency is required")
	}

	agencies, err := s.agencies.GetByIDs(dbctx.Context{Ctx: ctx}, agencyIDs)
	if err != nil {
		return nil, err
	}
	agencyByID := make(map[uuid.UUID]*types.Agency, len(agencies))
	for _, a := range agencies {
		agencyByID[a.ID] = a
	}
	if len(agencies) != len(agencyIDs) {
		missing := make([]string, 0, len(agencyIDs)-len(agencies))
		for _, id := range agencyIDs {
			if agencyByID[id] == nil {
				missing = append(missing, id.String())
			}
		}
		return nil, apierr.ValidationDetails("one or more target agencies do not exist", map[string]interface{}{
			"unknown_agency_ids": missing,
		})
	}

	brief := &types.Brief{
		ClientID:             *actor.ClientID,
		Name:                 strings.TrimSpace(in.Name),
		Status:               types.BriefStatusActive,
		Brand:                in.Brand,
		Budget:               in.Budget,
		DemographicsAge:      in.DemographicsAge,
		DemographicsGender:   in.DemographicsGender,
		NCCS:                 in.NCCS,
		Psychographics:       in.Psychographics,
		KeyMarkets:           jsonList(in.KeyMarkets),
		P1Markets:            jsonList(in.P1Markets),
		P2Markets:            jsonList(in.P2Markets),
		EditDurations:        jsonList(in.EditDurations),
		ACD:                  in.ACD,
		Dispersion:           in.Dispersion,
		AdvertisementLink:    in.AdvertisementLink,
		CreativeLanguages:    jsonList(in.CreativeLanguages),
		SchedulingPreference: in.SchedulingPreference,
		Miscellaneous:        in.Miscellaneous,
		Remarks:              in.Remarks,
		CreatedBy:            actor.UserID,
		UpdatedBy:            actor.UserID,
	}

	var planRows []*types.Plan
	txErr := s.db.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: txx}
		if _, err := s.briefs.Create(dbc, brief); err != nil {
			return err
		}
		planRows = make([]*types.Plan, 0, len(agencyIDs))
		for _, agencyID := range agencyIDs {
			planRows = append(planRows, &types.Plan{
				BriefID:       brief.ID,
				AgencyID:      agencyID,
				Status:        types.PlanStatusDraft,
				VersionNumber: 1,
				CreatedBy:     actor.UserID,
				UpdatedBy:     actor.UserID,
			})
		}
		if _, err := s.plans.Create(dbc, planRows); err != nil {
			return err
		}
		for _, p := range planRows {
			entry := &types.HistoryTrail{
				PlanID:    p.ID,
				Action:    types.ActionNewBriefCreated,
				ActorID:   actor.UserID,
				ActorName: actor.Name,
				Detail:    fmt.Sprintf("The brief was created and assigned to %s.", agencyByID[p.AgencyID].Name),
			}
			if _, err := s.history.Append(dbc, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.Info("brief created",
		"brief_id", brief.ID,
		"client_id", brief.ClientID,
		"plan_count", len(planRows),
	)
	attachAgencies(planRows, agencyByID)
	brief.Plans = planValues(planRows)
	return &BriefDetail{Brief: brief, TargetAgencies: agencies}, nil
}

func (s *briefService) List(ctx context.Context) ([]*BriefDetail, error) {
	actor := ctxutil.GetActor(ctx)
	if actor == nil {
		return nil, apierr.Unauthorized("not authenticated")
	}
	dbc := dbctx.Context{Ctx: ctx}

	var (
		rows []*types.Brief
		err  error
	)
	switch {
	case actor.Role == types.RoleClientAdmin && actor.ClientID != nil:
		rows, err = s.briefs.ListByClient(dbc, *actor.ClientID)
	case actor.Role == types.RoleAgencyMember && actor.AgencyID != nil:
		rows, err = s.briefs.ListByAgency(dbc, *actor.AgencyID)
	default:
		return nil, apierr.Forbidden("role has no brief access")
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*BriefDetail{}, nil
	}

	briefIDs := make([]uuid.UUID, 0, len(rows))
	for _, b := range rows {
		briefIDs = append(briefIDs, b.ID)
	}
	allPlans, err := s.plans.ListByBriefs(dbc, briefIDs)
	if err != nil {
		return nil, err
	}
	visible := make(map[uuid.UUID][]*types.Plan, len(rows))
	for _, p := range allPlans {
		if actor.Role == types.RoleAgencyMember && p.AgencyID != *actor.AgencyID {
			continue
		}
		visible[p.BriefID] = append(visible[p.BriefID], p)
	}

	agencyByID, err := s.loadAgencies(dbc, allPlansVisible(visible))
	if err != nil {
		return nil, err
	}

	out := make([]*BriefDetail, 0, len(rows))
	for _, b := range rows {
		planRows := visible[b.ID]
		attachAgencies(planRows, agencyByID)
		b.Plans = planValues(planRows)
		out = append(out, &BriefDetail{Brief: b, TargetAgencies: targetAgencies(planRows, agencyByID)})
	}
	return out, nil
}

func (s *briefService) Get(ctx context.Context, briefID uuid.UUID) (*BriefDetail, error) {
	actor := ctxutil.GetActor(ctx)
	if actor == nil {
		return nil, apierr.Unauthorized("not authenticated")
	}
	dbc := dbctx.Context{Ctx: ctx}

	brief, err := s.briefs.GetByID(dbc, briefID)
	if err != nil {
		return nil, err
	}

	var planRows []*types.Plan
	switch {
	case actor.Role == types.RoleClientAdmin && actor.ClientID != nil:
		if brief.ClientID != *actor.ClientID {
			return nil, apierr.Forbidden("brief belongs to another client")
		}
		planRows, err = s.plans.ListByBrief(dbc, briefID)
		if err != nil {
			return nil, err
		}
	case actor.Role == types.RoleAgencyMember && actor.AgencyID != nil:
		plan, perr := s.plans.GetByBriefAndAgency(dbc, briefID, *actor.AgencyID)
		if perr != nil {
			if apierr.IsKind(perr, apierr.KindNotFound) {
				return nil, apierr.Forbidden("brief is not assigned to your agency")
			}
			return nil, perr
		}
		planRows = []*types.Plan{plan}
	default:
		return nil, apierr.Forbidden("role has no brief access")
	}

	if err := s.attachHistory(dbc, planRows); err != nil {
		return nil, err
	}
	agencyByID, err := s.loadAgencies(dbc, planRows)
	if err != nil {
		return nil, err
	}
	attachAgencies(planRows, agencyByID)
	brief.Plans = planValues(planRows)
	return &BriefDetail{Brief: brief, TargetAgencies: targetAgencies(planRows, agencyByID)}, nil
}

func (s *briefService) RecomputeStatus(dbc dbctx.Context, briefID, updatedBy uuid.UUID) (types.BriefStatus, error) {
	brief, err := s.briefs.GetByID(dbc, briefID)
	if err != nil {
		return "", err
	}
	planRows, err := s.plans.ListByBrief(dbc, briefID)
	if err != nil {
		return "", err
	}
	next := briefs.AggregateStatus(brief.Status, planValues(planRows))
	if next == brief.Status {
		return next, nil
	}
	if err := s.briefs.UpdateStatus(dbc, briefID, next, updatedBy); err != nil {
		return "", err
	}
	s.log.Info("brief status derived",
		"brief_id", briefID,
		"from", brief.Status,
		"to", next,
	)
	return next, nil
}

func (s *briefService) attachHistory(dbc dbctx.Context, planRows []*types.Plan) error {
	if len(planRows) == 0 {
		return nil
	}
	planIDs := make([]uuid.UUID, 0, len(planRows))
	for _, p := range planRows {
		planIDs = append(planIDs, p.ID)
	}
	entries, err := s.history.ListByPlans(dbc, planIDs)
	if err != nil {
		return err
	}
	byPlan := make(map[uuid.UUID][]types.HistoryTrail, len(planRows))
	for _, e := range entries {
		byPlan[e.PlanID] = append(byPlan[e.PlanID], *e)
	}
	for _, p := range planRows {
		p.History = byPlan[p.ID]
	}
	return nil
}

func (s *briefService) loadAgencies(dbc dbctx.Context, planRows []*types.Plan) (map[uuid.UUID]*types.Agency, error) {
	ids := make([]uuid.UUID, 0, len(planRows))
	seen := make(map[uuid.UUID]bool, len(planRows))
	for _, p := range planRows {
		if !seen[p.AgencyID] {
			seen[p.AgencyID] = true
			ids = append(ids, p.AgencyID)
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*types.Agency{}, nil
	}
	agencies, err := s.agencies.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*types.Agency, len(agencies))
	for _, a := range agencies {
		byID[a.ID] = a
	}
	return byID, nil
}

func targetAgencies(planRows []*types.Plan, byID map[uuid.UUID]*types.Agency) []*types.Agency {
	out := make([]*types.Agency, 0, len(planRows))
	for _, p := range planRows {
		if a := byID[p.AgencyID]; a != nil {
			out = append(out, a)
		}
	}
	return out
}

func attachAgencies(planRows []*types.Plan, byID map[uuid.UUID]*types.Agency) {
	for _, p := range planRows {
		p.Agency = byID[p.AgencyID]
	}
}

func planValues(planRows []*types.Plan) []types.Plan {
	out := make([]types.Plan, len(planRows))
	for i, p := range planRows {
		out[i] = *p
	}
	return out
}

func allPlansVisible(visible map[uuid.UUID][]*types.Plan) []*types.Plan {
	var out []*types.Plan
	for _, planRows := range visible {
		out = append(out, planRows...)
	}
	return out
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func jsonList(values []string) datatypes.JSON {
	if len(values) == 0 {
		return nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
