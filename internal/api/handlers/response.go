package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/andresuchdata/toastshop/backend-go/internal/repository"
	"github.com/andresuchdata/toastshop/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidParameters):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

func shopIDFrom(c *gin.Context, fallback string) string {
	if id := strings.TrimSpace(c.Query("shop_id")); id != "" {
		return id
	}
	return fallback
}
