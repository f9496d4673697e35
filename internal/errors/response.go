package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failure response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondWithError writes an error body. Callers in middleware must still
// call c.Abort().
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, errorCode string, message string) {
	if errorCode == "" {
		errorCode = AuthUnauthorized
	}
	if message == "" {
		message = "Authorization required."
	}
	RespondWithError(c, http.StatusUnauthorized, errorCode, message)
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found."
	}
	RespondWithError(c, http.StatusNotFound, ResourceNotFound, message)
}

// Conflict reports uniqueness and in-use violations. The API reports them
// as 400, not 409.
func Conflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, ResourceConflict, message)
}

// InternalError never includes the underlying error text.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "An internal error occurred."
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError carries field-level messages
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Request body is invalid.",
		Fields:  fields,
	})
}
