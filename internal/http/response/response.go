// Package response holds the JSON envelopes the meeting API writes, so every
// handler reports errors the same way.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the error payload of the meeting API. Code is a stable
// machine-readable identifier such as "invalid_transcript" or
// "meeting_not_found".
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes err under the error envelope with the given status and
// code. A nil err still produces a message so clients never see an empty
// envelope.
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

// RespondOK writes payload as a 200 JSON response.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
