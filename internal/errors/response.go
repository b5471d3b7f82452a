package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	MsgResourceNotFound = "Resource not found"
	MsgInternalError    = "Internal server error"
)

// ErrorResponse is the single error envelope of the API.
type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondWithError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = MsgResourceNotFound
	}
	RespondWithError(c, http.StatusNotFound, message)
}

func BadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, message)
}

// InternalError forwards the underlying error text to the client.
func InternalError(c *gin.Context, err error) {
	message := MsgInternalError
	if err != nil {
		message = err.Error()
		_ = c.Error(err)
	}
	RespondWithError(c, http.StatusInternalServerError, message)
}

// NoRoute answers unmatched paths.
func NoRoute(c *gin.Context) {
	NotFound(c, MsgResourceNotFound)
}

// Recovered answers a request whose handler panicked.
func Recovered(c *gin.Context, _ any) {
	RespondWithError(c, http.StatusInternalServerError, MsgInternalError)
}
