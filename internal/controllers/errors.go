package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dishes-be/internal/apperrors"
	"dishes-be/internal/middleware"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error response. Internal failures are logged and
// answered with a generic body.
func respondError(c *gin.Context, log logrus.FieldLogger, err error, notFoundMsg string) {
	status := statusFor(err)
	_ = c.Error(err)

	var msg string
	switch status {
	case http.StatusInternalServerError:
		log.WithError(err).WithField("request_id", middleware.RequestID(c)).Error("request failed")
		msg = "Internal server error"
	case http.StatusNotFound:
		msg = notFoundMsg
	default:
		msg = outermostMessage(err)
	}

	c.JSON(status, gin.H{"error": msg})
}

// outermostMessage returns the message added by the last wrap, without the
// ": cause" text every wrap repeats.
func outermostMessage(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		inner := errors.Unwrap(e)
		if inner == nil {
			return e.Error()
		}
		if msg, ok := strings.CutSuffix(e.Error(), ": "+inner.Error()); ok && msg != "" {
			return msg
		}
	}
	return err.Error()
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

// callerID returns the id set by the auth middleware.
func callerID(c *gin.Context) (string, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		c.Abort()
	}
	return id, ok
}
