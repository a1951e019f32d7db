package handler

import (
	"errors"
	"net/http"

	"github.com/JordyV23/social-app/internal/apperr"
	"github.com/JordyV23/social-app/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// handleError writes err as a {code, msg} body. Unclassified errors are
// logged and reported as a generic internal error.
func handleError(c *gin.Context, logger *logger.Logger, err error) {
	apiErr, ok := apperr.As(err)
	if !ok {
		logger.Error("unhandled request error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err)
		_ = c.Error(err)
		apiErr = apperr.NewErrInternal()
	}
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}

// bindError classifies a gin binding failure.
func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.NewErrPayloadTooLarge()
	}
	return apperr.NewErrValidation(err.Error())
}

func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.NewErrInvalidID(field)
	}
	return id, nil
}
