package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Meet5113/greencart-backend/internal/handler/httperr"
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logServerErrors(c, logger)

		if c.Writer.Written() {
			return
		}
		// Search backward through the error stack
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]

			if err.IsType(gin.ErrorTypePublic) {
				if resp, ok := err.Meta.(httperr.Response); ok {
					c.JSON(resp.Status, resp)
					return
				}
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal server error"}})
	}
}

const stackLogLines = 12

// logServerErrors records the cause and the top of its stack behind every 5xx
// response. Stock inconsistencies are tagged for alerting.
func logServerErrors(c *gin.Context, logger *slog.Logger) {
	if c.Writer.Status() < http.StatusInternalServerError {
		return
	}
	for _, ge := range c.Errors {
		attrs := []any{
			"request_id", GetRequestID(c),
			"path", c.Request.URL.Path,
			"error", ge.Err,
			"stack", errs.ExtractStackLines(ge.Err, stackLogLines),
		}
		if errs.IsConsistency(ge.Err) {
			attrs = append(attrs, "severity", "critical", "alert", true)
		}
		logger.ErrorContext(c.Request.Context(), "request failed", attrs...)
	}
}

func CustomRecovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("recovered from panic", "error", err, "path", c.Request.URL.Path)

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"

				c.JSON(http.StatusInternalServerError, resp)
				c.Abort()
			}
		}()
		c.Next()
	}
}
