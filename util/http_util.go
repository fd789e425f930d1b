// util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/revguard/api/logging"
)

// Envelope is the standardized response body: status code, human message and
// an optional data payload. Every response, success or failure, uses it, so
// raw errors and stack traces never reach the client.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Respond writes a success envelope.
func Respond(c *gin.Context, code int, message string, data interface{}) {
	if data == nil {
		data = []interface{}{}
	}
	c.JSON(code, Envelope{Status: code, Message: message, Data: data})
}

// RespondWithError logs the underlying error and writes a failure envelope
// carrying only the public message.
func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, Envelope{Status: code, Message: message, Data: []interface{}{}})
	c.Abort()
}
