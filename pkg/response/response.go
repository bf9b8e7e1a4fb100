package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-account-service/pkg/apperror"
)

const msgUnexpected = "an unexpected error occurred"

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a successful envelope.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

// Error writes a failed envelope and aborts the chain.
func Error(ctx *gin.Context, status int, message string, err interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, APIResponse[any]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	})
}

// Fail maps err to a response. An apperror keeps its kind and message; anything
// else is logged and reported as a bare 500.
func Fail(ctx *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if appErr.Kind == apperror.KindInternal {
			logFailure(ctx, err)
		}
		Error(ctx, appErr.Kind.HTTPStatus(), appErr.Message, nil)
		return
	}
	logFailure(ctx, err)
	Error(ctx, http.StatusInternalServerError, msgUnexpected, nil)
}

func logFailure(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	logrus.WithFields(logrus.Fields{
		"request_id": ctx.GetString("request_id"),
		"path":       ctx.FullPath(),
	}).WithError(err).Error("request failed")
}
