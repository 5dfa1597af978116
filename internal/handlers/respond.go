package handlers

import (
	"errors"
	"net/http"
	"time"

	"contactbook/internal/service"

	"github.com/gin-gonic/gin"
)

// errorEnvelope is the uniform failure shape returned by every endpoint.
type errorEnvelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Path       string `json:"path"`
	Timestamp  string `json:"timestamp"`
}

// respondError aborts the request with the uniform failure envelope.
func (h *Handler) respondError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, errorEnvelope{
		Success:    false,
		StatusCode: code,
		Message:    message,
		Path:       c.Request.URL.Path,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

// respondServiceError maps domain errors onto HTTP statuses; anything
// unrecognized is logged and reported as an internal error.
func (h *Handler) respondServiceError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		h.respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		h.respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrContactNotFound):
		h.respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		h.respondError(c, http.StatusForbidden, err.Error())
	default:
		if h.log != nil {
			fields := append([]interface{}{"err", err}, kv...)
			h.log.Errorw(logKey, fields...)
		}
		h.respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
