package handlers

import (
	"errors"
	"net/http"

	"myflix"
	"myflix/internal/service"

	"github.com/gin-gonic/gin"
)

var unauthorizedErrors = []error{
	service.ErrMissingAuthHeader,
	service.ErrInvalidAuthHeader,
	service.ErrInvalidToken,
}

// respondError maps a service error to its HTTP status and body. Only
// unexpected (store) errors are logged at error level.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, myflix.ValidationErrorResponse{Errors: verr.Errors})
	case errors.Is(err, service.ErrAuthenticationFailed):
		c.JSON(http.StatusBadRequest, myflix.ErrorResponse{Error: service.ErrAuthenticationFailed.Error()})
	case isUnauthorized(err):
		c.JSON(http.StatusUnauthorized, myflix.ErrorResponse{Error: unauthorizedMessage(err)})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, myflix.ErrorResponse{Error: service.ErrForbidden.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, myflix.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, myflix.ErrorResponse{Error: err.Error()})
	default:
		if h.log != nil {
			fields := append([]interface{}{"err", err}, kv...)
			h.log.Errorw(logKey, fields...)
		}
		c.JSON(http.StatusInternalServerError, myflix.ErrorResponse{Error: "Error: " + err.Error()})
	}
}

func isUnauthorized(err error) bool {
	for _, target := range unauthorizedErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// unauthorizedMessage hides token parser details behind the sentinel text.
func unauthorizedMessage(err error) string {
	for _, target := range unauthorizedErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
