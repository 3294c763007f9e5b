package middleware

import "github.com/gin-gonic/gin"

// errorBody mirrors handlers.ErrorResponse so middleware rejections carry
// the same envelope as handler errors.
type errorBody struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// abortWithError aborts the chain with the error envelope. The request id
// is taken from the response header set by RequestID.
func abortWithError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorBody{
		RequestID: c.Writer.Header().Get(requestIDHeader),
		Code:      code,
		Message:   msg,
	})
}
