package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cocoexperiments/pokett-be/internal/apperr"
	"github.com/cocoexperiments/pokett-be/pkg/rpc"
)

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error body. Server errors are logged and their
// details withheld from the client.
func Error(c *gin.Context, err error) {
	status := statusFor(err)
	msg := apperr.Message(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request error", "path", c.Request.URL.Path, "error", err)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, rpc.ErrorResponse{Error: msg})
}

// ParamError writes a 400 for a request that failed binding.
func ParamError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, rpc.ErrorResponse{Error: err.Error()})
}

var errNameRequired = errors.New("name is required")
