package httperr

import (
	"net/http"

	"gamezone-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// StatusFor maps an error class to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errs.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errs.IsConflict(err):
		return http.StatusConflict
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.IsForbidden(err):
		return http.StatusForbidden
	case errs.IsSignature(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Abort answers with the status of err's class. Retryable conflicts carry
// Retry-After; server errors never leak their message.
func Abort(c *gin.Context, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	if status == http.StatusConflict && errs.IsRetryable(err) {
		c.Header("Retry-After", "1")
	}
	AbortWithError(c, status, err, msg, nil)
}

func AbortBadRequest(c *gin.Context, err error, msg string) {
	AbortWithError(c, http.StatusBadRequest, err, msg, nil)
}
