package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"hardware_shop_backend/internal/services"
	"hardware_shop_backend/internal/validation"
	"hardware_shop_backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// decodeBody binds the JSON body into dst. With binding.EnableDecoderUseNumber set by
// the router, numbers arrive as json.Number, so amounts such as 1500.10 reach the
// validation layer without float rounding.
func decodeBody(c *gin.Context, dst any) error {
	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// bindObject decodes a JSON object body. It responds 400 and returns false otherwise.
func bindObject(c *gin.Context, handler string) (map[string]any, bool) {
	var input map[string]any
	if err := decodeBody(c, &input); err != nil || input == nil {
		if err == nil {
			err = errors.New("body must be a JSON object")
		}
		utils.LogWarn(handler+": invalid JSON payload", map[string]interface{}{"error": err.Error()})
		utils.RespondBadRequest(c, "Invalid request payload", err.Error())
		return nil, false
	}
	return input, true
}

// bindID parses the :id path parameter. It responds 400 and returns false when it is not a UUID.
func bindID(c *gin.Context, label string) (string, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondBadRequest(c, fmt.Sprintf("Invalid %s ID format", label), err.Error())
		return "", false
	}
	return id, true
}

// respondError maps a service error onto the response envelope. Unexpected errors are
// logged with their cause and answered with a generic 500.
func respondError(c *gin.Context, err error, exposeDetails bool) {
	var details any
	var be *services.BatchError
	if errors.As(err, &be) {
		details = gin.H{"index": be.Index}
		err = be.Err
	}

	var verr *validation.Error
	var ce *services.ConflictError
	var nf *services.NotFoundError
	switch {
	case errors.As(err, &verr):
		utils.RespondWithError(c, &utils.APIError{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       utils.ErrCodeValidationFailed,
			Message:    "Validation failed",
			Fields:     verr.Fields(),
			Details:    details,
		})
	case errors.As(err, &ce):
		utils.RespondWithError(c, &utils.APIError{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       utils.ErrCodeConstraint,
			Message:    ce.Message,
			Fields:     map[string][]string{ce.Field: {ce.Message}},
			Details:    details,
		})
	case errors.As(err, &nf):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, nf.Error(), details))
	case errors.Is(err, services.ErrInvalidQuery), errors.Is(err, services.ErrNoChanges):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, err.Error(), details))
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil))
	default:
		utils.RespondServerError(c, err, exposeDetails)
	}
}
