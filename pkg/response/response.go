package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-account/pkg/apperror"
	"github.com/oksasatya/lingo-account/pkg/helpers"
	"github.com/oksasatya/lingo-account/pkg/validation"
)

// Error codes carried in ErrorBody.Code.
const (
	CodeValidation         = "validation_error"
	CodeConflict           = "conflict"
	CodeUnauthorized       = "unauthorized"
	CodeInvalidCredentials = "invalid_credentials"
	CodeNotFound           = "not_found"
	CodeInternal           = "internal_error"
)

const internalMessage = "internal server error"

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
}

func Error[T any](ctx *gin.Context, status int, message string, body *ErrorBody) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     body,
	}
}

// OK writes a success envelope.
func OK[T any](c *gin.Context, status int, data T, message string) {
	resp := Success(c, status, data, message, nil)
	c.JSON(resp.Status, resp)
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, status int, code, message string, details map[string]string) {
	resp := Error[any](c, status, message, &ErrorBody{Code: code, Details: details})
	c.AbortWithStatusJSON(resp.Status, resp)
}

// FromError maps err onto the envelope by its apperror kind. Storage
// failures and unknown errors are logged and answered with a generic 500.
func FromError(c *gin.Context, log *logrus.Entry, err error) {
	status, code := Classify(err)
	switch code {
	case CodeValidation:
		Abort(c, status, code, apperror.Message(err, "invalid request"), validation.ToDetails(err))
	case CodeInternal:
		if log != nil {
			helpers.LogError(log, "request failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
		}
		Abort(c, status, code, internalMessage, nil)
	default:
		Abort(c, status, code, apperror.Message(err, http.StatusText(status)), nil)
	}
}

// Classify returns the HTTP status and error code for err.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
