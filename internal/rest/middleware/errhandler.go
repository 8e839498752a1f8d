package middleware

import (
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/sentry"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error attached to the context. Only hints and
// reportable details reach the response body, the full chain goes to the log.
// Server errors are also reported to Sentry.
func ErrorHandler(log *logger.Logger, sentrySvc *sentry.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)
		if status >= 500 {
			log.Errorw("request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"status", status,
				"error", err,
			)
			sentrySvc.CaptureException(c.Request.Context(), err)
		} else {
			log.Debugw("request rejected",
				"path", c.FullPath(),
				"status", status,
				"error", err,
			)
		}

		c.JSON(status, ierr.NewErrorResponse(err))
	}
}
