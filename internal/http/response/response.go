package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediaflowhq/mediaflow-backend/internal/platform/apierr"
)

type APIError struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type DataEnvelope struct {
	Data any `json:"data"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, DataEnvelope{Data: payload})
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps a taxonomy error onto the wire envelope. Anything
// outside the taxonomy becomes a bare 500 so internals never leak to callers.
func RespondServiceError(c *gin.Context, err error) {
	if e := apierr.From(err); e != nil {
		c.JSON(e.Status(), ErrorEnvelope{
			Error: APIError{
				Message: e.Message,
				Code:    string(e.Kind),
				Details: e.Details,
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorEnvelope{
		Error: APIError{
			Message: "internal server error",
			Code:    "internal_error",
		},
	})
}

// Unauthorized is the envelope used by middleware aborts.
func Unauthorized(message string) ErrorEnvelope {
	return ErrorEnvelope{Error: APIError{Message: message, Code: "unauthorized"}}
}
