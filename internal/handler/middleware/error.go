package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"booking-orchestrator/internal/handler/httperr"
	"booking-orchestrator/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const maxLoggedStackLines = 12

// ErrorHandler writes the response recorded by httperr when a handler did not write one itself,
// and logs server-side failures with their stack.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && c.Writer.Status() >= http.StatusInternalServerError {
			last := c.Errors.Last()
			slog.Error("request failed",
				"request_id", GetRequestID(c),
				"path", c.FullPath(),
				"error", last.Err.Error(),
				"stack", errs.ExtractStackLines(last.Err, maxLoggedStackLines))
		}

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if !err.IsType(gin.ErrorTypePublic) {
				continue
			}
			if resp, ok := err.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		if len(c.Errors) > 0 {
			httperr.WriteInternal(c)
		}
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("recovered from panic",
					"panic", rec,
					"request_id", GetRequestID(c),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()))
				httperr.WriteInternal(c)
			}
		}()
		c.Next()
	}
}
