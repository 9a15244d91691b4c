package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iov-one/lockbox/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    uint32 `json:"code"`
	Message string `json:"message"`
}

// errorMiddleware renders the last error a handler attached to the request.
// The ledger error code is kept, the status is derived from it.
func errorMiddleware(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status := httpStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("request failed", "path", c.Request.URL.Path, "err", err)
		}
		code, _ := errors.ABCIInfo(err, false)
		c.JSON(status, ErrorResponse{Code: code, Message: errors.Redact(err, false).Error()})
	}
}

func httpStatus(err error) int {
	switch {
	case errors.ErrNotFound.Is(err):
		return http.StatusNotFound
	case errors.ErrInput.Is(err),
		errors.ErrEmpty.Is(err),
		errors.ErrType.Is(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
