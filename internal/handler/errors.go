package handler

import (
	"errors"
	"net/http"

	"flourerp/internal/apperror"
	"flourerp/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP status codes. Unknown errors are treated as
// internal failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidTransition), errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrThresholdExceeded),
		errors.Is(err, apperror.ErrNotApproved),
		errors.Is(err, apperror.ErrNotACustomerDelivery):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	code := statusFor(err)
	c.JSON(code, response.Error(code, err.Error()))
}
