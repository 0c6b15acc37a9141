package api

import (
	"codeflex/fitness-api/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, code int, data any) {
	c.JSON(code, envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, code int, message string) {
	c.JSON(code, envelope{Success: true, Message: message})
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, envelope{Success: false, Message: message})
}

// respondError maps a service error to its status code and client message.
// Anything unrecognised is logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		abortWithError(c, http.StatusBadRequest, "User already exists with this email")
	case errors.Is(err, service.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		abortWithError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrNoToken):
		abortWithError(c, http.StatusUnauthorized, "Not authorized, no token")
	case errors.Is(err, service.ErrInvalidToken):
		abortWithError(c, http.StatusUnauthorized, "Not authorized, token failed")
	case errors.Is(err, service.ErrForbidden):
		abortWithError(c, http.StatusForbidden, "Not authorized as admin")
	case errors.Is(err, service.ErrNotOwner):
		abortWithError(c, http.StatusForbidden, "Not authorized to access another user's plans")
	case errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrStorageDisabled):
		abortWithError(c, http.StatusServiceUnavailable, "Profile images are not available")
	case errors.Is(err, service.ErrUpstreamFormat):
		abortWithError(c, http.StatusInternalServerError, "Plan generation returned an invalid response")
	case errors.Is(err, service.ErrUpstream):
		abortWithError(c, http.StatusInternalServerError, "Plan generation failed")
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
