package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/stores-rest-api/internal/errors"
	"github.com/ikkim/stores-rest-api/internal/middleware"
	"github.com/ikkim/stores-rest-api/internal/validation"
)

// bindJSON decodes and validates the body into req. On failure it has
// already written the 400 response.
func bindJSON(c *gin.Context, req interface{}) bool {
	log := middleware.GetLoggerFromContext(c)

	if err := c.ShouldBindJSON(req); err != nil {
		fields := validation.DecodeError(err)
		log.Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, fields)
		return false
	}

	if err := validation.Validate(req); err != nil {
		var fields validation.FieldErrors
		if errors.As(err, &fields) {
			log.Warn("Request validation failed", map[string]interface{}{
				"fields": fields,
			})
			apperrors.RespondWithValidationError(c, fields)
			return false
		}
		log.Error("Request validation errored", err)
		apperrors.InternalError(c, "")
		return false
	}
	return true
}

// pathID parses a numeric path parameter. A value that is not a positive
// integer cannot name a row, so it is reported as not found.
func pathID(c *gin.Context, name, notFoundMsg string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apperrors.NotFound(c, notFoundMsg)
		return 0, false
	}
	return uint(id), true
}
