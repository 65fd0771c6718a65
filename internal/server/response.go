package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errx "github.com/tutor-orchestrator/server/internal/core/error"
)

type ErrorEnvelope struct {
	Error string `json:"error"`
}

// RespondError writes the status and safe message carried by err.
func RespondError(c *gin.Context, err error) {
	status := errx.StatusOf(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: errx.MessageOf(err)})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
