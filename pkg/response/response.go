package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/shamba-farm/pkg/apperr"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes an error envelope, aborts the handler chain and returns the envelope.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}

// FromError maps a domain error onto an error envelope. Validation errors
// carry their field map; internal errors are reported without detail.
func FromError(ctx *gin.Context, err error) APIResponse[any] {
	err = apperr.FromDataViolation(err)
	status := apperr.HTTPStatus(err)
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return Error[any](ctx, status, "invalid payload", apperr.Fields(err))
	case status == http.StatusInternalServerError:
		_ = ctx.Error(err)
		return Error[any](ctx, status, "internal server error", nil)
	case errors.Is(err, apperr.ErrNotFound):
		return Error[any](ctx, status, "not found", nil)
	case errors.Is(err, apperr.ErrForbidden):
		return Error[any](ctx, status, apperr.ErrForbidden.Error(), nil)
	case errors.Is(err, apperr.ErrUnauthorized):
		return Error[any](ctx, status, err.Error(), nil)
	}
	return Error[any](ctx, status, err.Error(), nil)
}
