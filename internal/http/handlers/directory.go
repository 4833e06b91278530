package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mediaflowhq/mediaflow-backend/internal/http/response"
	"github.com/mediaflowhq/mediaflow-backend/internal/services"
)

type DirectoryHandler struct {
	directoryService services.DirectoryService
}

func NewDirectoryHandler(directoryService services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

func (dh *DirectoryHandler) ListAgencies(c *gin.Context) {
	agencies, err := dh.directoryService.ListAgencies(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, agencies)
}

func (dh *DirectoryHandler) ListClients(c *gin.Context) {
	clients, err := dh.directoryService.ListClients(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, clients)
}
