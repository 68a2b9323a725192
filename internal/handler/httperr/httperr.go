package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the logging middleware stores the request id under.
const RequestIDKey = "request_id"

const internalMessage = "Internal server error"

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
	Detail    any    `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func newResponse(c *gin.Context, status int, code, msg string, detail any) Response {
	resp := Response{Status: status, Detail: detail, RequestID: c.GetString(RequestIDKey)}
	resp.Error.Code = code
	resp.Error.Message = msg
	return resp
}

// AbortWithError keeps err on the gin context for the logging middleware.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	AbortWithCode(c, status, err, "", msg, detail)
}

// AbortWithCode also sets a machine readable error code.
func AbortWithCode(c *gin.Context, status int, err error, code, msg string, detail any) {
	if err == nil {
		panic("AbortWithCode: err cannot be nil")
	}

	resp := newResponse(c, status, code, msg, detail)
	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Internal answers 500 without leaking err to the client.
func Internal(c *gin.Context, err error) {
	AbortWithCode(c, http.StatusInternalServerError, err, "internal_error", internalMessage, nil)
}

// WriteInternal is for paths where no handler error was recorded, such as a recovered panic.
func WriteInternal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, newResponse(c, http.StatusInternalServerError, "internal_error", internalMessage, nil))
}
