package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Standardized APIError response
type APIError struct {
	StatusCode int                 `json:"-"`              // HTTP status code, not included in JSON response body
	Code       string              `json:"code,omitempty"` // Application-specific error code
	Message    string              `json:"message"`
	Details    any                 `json:"details,omitempty"`
	Fields     map[string][]string `json:"-"` // Field-addressed validation messages, sent as "errors"
}

// NewAPIError creates a new APIError instance
func NewAPIError(statusCode int, code string, message string, details any) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

func (e *APIError) Error() string { return e.Message }

// Common Error Constants
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeConstraint          = "CONSTRAINT_VIOLATION"
	ErrCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
)

// Response is the envelope of every JSON response.
type Response struct {
	Success   bool                `json:"success"`
	Data      any                 `json:"data,omitempty"`
	Error     string              `json:"error,omitempty"`
	Code      string              `json:"code,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
	Details   any                 `json:"details,omitempty"`
	Message   string              `json:"message,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// RespondSuccess sends 200 with data.
func RespondSuccess(c *gin.Context, data any, message string) {
	if message == "" {
		message = "Operation successful"
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Message: message, Timestamp: time.Now().UTC()})
}

// RespondCreated sends 201 with data.
func RespondCreated(c *gin.Context, data any, message string) {
	if message == "" {
		message = "Resource created successfully"
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: data, Message: message, Timestamp: time.Now().UTC()})
}

// RespondWithError sends a standardized JSON error response
func RespondWithError(c *gin.Context, err *APIError) {
	c.AbortWithStatusJSON(err.StatusCode, Response{
		Success:   false,
		Error:     err.Message,
		Code:      err.Code,
		Errors:    err.Fields,
		Details:   err.Details,
		Timestamp: time.Now().UTC(),
	})
}

// RespondValidationFailed sends 422 with field-addressed messages.
func RespondValidationFailed(c *gin.Context, fields map[string][]string) {
	RespondWithError(c, &APIError{
		StatusCode: http.StatusUnprocessableEntity,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		Fields:     fields,
	})
}

// RespondBadRequest sends 400.
func RespondBadRequest(c *gin.Context, message string, details any) {
	RespondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeBadRequest, message, details))
}

// RespondNotFound sends 404 naming the missing resource.
func RespondNotFound(c *gin.Context, resource string) {
	RespondWithError(c, NewAPIError(http.StatusNotFound, ErrCodeNotFound, resource+" not found", nil))
}

// RespondServerError logs err and sends a generic 500. The cause is only exposed when
// exposeDetails is set, which callers do outside production.
func RespondServerError(c *gin.Context, err error, exposeDetails bool) {
	LogError(err, "Server error while handling "+c.Request.Method+" "+c.FullPath())
	apiErr := NewAPIError(http.StatusInternalServerError, ErrCodeInternalServerError, "Internal server error", nil)
	if exposeDetails && err != nil {
		apiErr.Details = gin.H{"message": err.Error()}
	}
	RespondWithError(c, apiErr)
}
