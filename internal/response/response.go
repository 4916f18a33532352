package response

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Successful responses are the raw entity or array; only failures carry an
// envelope. Clients depend on this shape, including its status-code quirks,
// so it is kept as-is.

// ErrorBody is the uniform failure payload.
type ErrorBody struct {
	Message string `json:"message"`
}

// Fail sends a failure with a human-readable message.
func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{Message: message})
}

// AbortFail aborts the middleware chain and sends a failure.
func AbortFail(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{Message: message})
}

// FailFields flattens a field→message validation map into a single failure
// message, keeping the store-style pass-through the API always had.
func FailFields(c *gin.Context, statusCode int, fields map[string]string) {
	msgs := make([]string, 0, len(fields))
	for _, msg := range fields {
		msgs = append(msgs, msg)
	}
	c.JSON(statusCode, ErrorBody{Message: strings.Join(msgs, "; ")})
}
