package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediaflowhq/mediaflow-backend/internal/http/response"
	"github.com/mediaflowhq/mediaflow-backend/internal/services"
)

type BriefHandler struct {
	briefService services.BriefService
}

func NewBriefHandler(briefService services.BriefService) *BriefHandler {
	return &BriefHandler{briefService: briefService}
}

func (bh *BriefHandler) Create(c *gin.Context) {
	var req services.CreateBriefInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	brief, err := bh.briefService.Create(c.Request.Context(), &req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, brief)
}

func (bh *BriefHandler) List(c *gin.Context) {
	briefs, err := bh.briefService.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, briefs)
}

func (bh *BriefHandler) Get(c *gin.Context) {
	briefID, ok := pathUUID(c, "briefID", "invalid_brief_id")
	if !ok {
		return
	}
	brief, err := bh.briefService.Get(c.Request.Context(), briefID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, brief)
}
