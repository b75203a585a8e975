package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockdesk/internal/repository/inventory"
)

// respondError translates a repository failure into an HTTP response. Session
// expiry is 401, upstream 4xx statuses pass through, anything else from the
// remote API is a 502.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if errors.Is(err, inventory.ErrSessionExpired) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}

	var apiErr *inventory.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			status = apiErr.StatusCode
		}
		logger.Warn("upstream request failed", zap.Error(err))
		c.JSON(status, gin.H{"error": apiErr.Message})
		return
	}

	logger.Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
