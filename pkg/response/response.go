package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resp is the JSON envelope of every API response.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}

// NewOKResp returns a new OK response with the given data.
func NewOKResp(data any) Resp {
	return Resp{
		ErrorCode: CodeOK,
		Message:   MessageSuccess,
		Data:      data,
	}
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// BadRequest aborts with 400 and the error text as message.
func BadRequest(c *gin.Context, err error) {
	abort(c, http.StatusBadRequest, CodeBadRequest, err.Error())
}

// Unauthorized aborts with 401.
func Unauthorized(c *gin.Context) {
	abort(c, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
}

// NotFound aborts with 404.
func NotFound(c *gin.Context) {
	abort(c, http.StatusNotFound, CodeNotFound, "Not Found")
}

// InternalError aborts with 500. err is not exposed to the client.
func InternalError(c *gin.Context) {
	abort(c, http.StatusInternalServerError, CodeInternal, DefaultErrorMessage)
}

func abort(c *gin.Context, status, code int, message string) {
	c.AbortWithStatusJSON(status, Resp{ErrorCode: code, Message: message})
}
