package rest

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	outerror "github.com/webitel/webitel-go-kit/pkg/errors"
	"go.opentelemetry.io/otel/trace"

	"github.com/webitel/video-exporter/internal/errors"
)

// writeError logs err, records it on the request span and renders it as an
// application error with the status carried by err. The detail is translated
// by error id when the request's language has a message for it.
func writeError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	code := errors.Status(err)

	trace.SpanFromContext(ctx).RecordError(err)
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, errors.Details(err), slog.String("route", c.FullPath()))
	} else {
		slog.WarnContext(ctx, errors.Details(err), slog.String("route", c.FullPath()))
	}

	var id string
	detail := errors.Message(err)
	var appErr *errors.AppError
	if errors.As(err, &appErr) && appErr.ID != "" {
		id = appErr.ID
		if text := translator(c)(id); text != id {
			detail = text
		}
	}
	if code >= http.StatusInternalServerError && code != http.StatusBadGateway {
		// Internal causes stay in the logs.
		detail = http.StatusText(code)
	}

	body := outerror.NewCustomCodeError(id, detail, code)
	c.AbortWithStatusJSON(body.GetStatusCode(), body)
}

// Recovery turns a panic in a handler into a 500 response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if panicErr := recover(); panicErr != nil {
				slog.ErrorContext(c.Request.Context(), "[PANIC RECOVER]",
					slog.Any("err", panicErr),
					slog.String("stack", string(debug.Stack())),
				)
				writeError(c, errors.Internal("internal error", errors.WithID("api.process.panic")))
			}
		}()
		c.Next()
	}
}
