package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medeiros27/diligencias-app/internal/transport/http/middleware"
	"github.com/medeiros27/diligencias-app/internal/usecase"
)

var errLog = zap.NewNop()

// SetLogger wires the server logger into the terminal error translator. Called
// once during route registration.
func SetLogger(l *zap.Logger) {
	if l != nil {
		errLog = l
	}
}

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError resolves the provided error against known cases or
// falls back to a generic response. Validation errors always render as 422
// with the per-field list. Unmapped errors are logged here, with the trace id,
// before the generic envelope goes out; the detail never reaches the client.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		RespondValidationError(c, verr)
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, cs.Status, cs.Message))
			return
		}
	}

	errLog.Error("unmapped handler error",
		zap.Error(err),
		zap.String("trace_id", middleware.GetTraceID(c)),
		zap.String("path", c.FullPath()),
	)
	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackStatus, fallbackMessage))
}
