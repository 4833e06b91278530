package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediaflowhq/mediaflow-backend/internal/http/response"
	"github.com/mediaflowhq/mediaflow-backend/internal/services"
)

type PlanHandler struct {
	planService services.PlanService
}

func NewPlanHandler(planService services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

func (ph *PlanHandler) ids(c *gin.Context) (briefID, planID uuid.UUID, ok bool) {
	if briefID, ok = pathUUID(c, "briefID", "invalid_brief_id"); !ok {
		return
	}
	planID, ok = pathUUID(c, "planID", "invalid_plan_id")
	return
}

func (ph *PlanHandler) Get(c *gin.Context) {
	briefID, planID, ok := ph.ids(c)
	if !ok {
		return
	}
	detail, err := ph.planService.Get(c.Request.Context(), briefID, planID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

func (ph *PlanHandler) RequestUpload(c *gin.Context) {
	briefID, planID, ok := ph.ids(c)
	if !ok {
		return
	}
	ticket, err := ph.planService.RequestUpload(c.Request.Context(), briefID, planID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, ticket)
}

func (ph *PlanHandler) ExtractColumns(c *gin.Context) {
	briefID, planID, ok := ph.ids(c)
	if !ok {
		return
	}
	plan, err := ph.planService.ExtractColumns(c.Request.Context(), briefID, planID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, plan)
}

func (ph *PlanHandler) UpdateColumns(c *gin.Context) {
	briefID, planID, ok := ph.ids(c)
	if !ok {
		return
	}
	var req services.UpdateColumnsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	plan, err := ph.planService.UpdateColumns(c.Request.Context(), briefID, planID, &req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, plan)
}

func (ph *PlanHandler) Submit(c *gin.Context) {
	briefID, planID, ok := ph.ids(c)
	if !ok {
		return
	}
	// Body is optional; an empty submit still carries the default detail text.
	var req services.SubmitPlanInput
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	plan, err := ph.planService.Submit(c.Request.Context(), briefID, planID, &req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, plan)
}

func (ph *PlanHandler) Review(c *gin.Context) {
	briefID, planID, ok := ph.ids(c)
	if !ok {
		return
	}
	var req services.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	outcome, err := ph.planService.Review(c.Request.Context(), briefID, planID, &req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, outcome)
}
