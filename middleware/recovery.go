// middleware/recovery.go

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/revguard/api/audit"
	"github.com/revguard/api/auth"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/util"
)

// Recovery converts unhandled panics into generic 500 envelopes and records
// them in the audit trail with the captured stack. The recorder swallows its
// own failures, so a broken audit sink can never turn recovery into a second
// panic.
func Recovery(auditService audit.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				stack := debug.Stack()

				cause, ok := recovered.(error)
				if !ok {
					cause = fmt.Errorf("panic: %v", recovered)
				}

				var userID *uuid.UUID
				if user, ok := auth.CurrentUser(c); ok {
					userID = &user.ID
				}

				auditService.RecordError(c.Request.Context(), cause,
					fmt.Sprintf("Unhandled panic in %s %s", c.Request.Method, c.Request.URL.Path),
					userID, c.Request, stack)

				logger.Error("Recovered from panic",
					zap.Any("panic", recovered),
					zap.String("path", c.Request.URL.Path),
					zap.ByteString("stack", stack))

				c.AbortWithStatusJSON(http.StatusInternalServerError, util.Envelope{
					Status:  http.StatusInternalServerError,
					Message: "Internal server error",
					Data:    []interface{}{},
				})
			}
		}()
		c.Next()
	}
}
