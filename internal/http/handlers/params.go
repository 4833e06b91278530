package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediaflowhq/mediaflow-backend/internal/http/response"
)

// pathUUID parses one path parameter; on a malformed id it writes the 400
// envelope itself and reports ok=false.
func pathUUID(c *gin.Context, param, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, code, fmt.Errorf("%s is not a valid uuid", param))
		return uuid.Nil, false
	}
	return id, true
}
