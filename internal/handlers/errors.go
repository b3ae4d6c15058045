package handlers

import (
	"errors"
	"net/http"

	"closet-sync/internal/database"
	"closet-sync/internal/logger"
	"closet-sync/internal/middleware"
	"closet-sync/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// userID reads the authenticated user, writing a 401 when it is missing.
func userID(c *gin.Context) (string, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return "", false
	}
	return id, true
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: message})
}

// respondError maps store errors to status codes.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found", Message: message})
	case errors.Is(err, database.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "insufficient funds", Message: message})
	default:
		logger.FromContext(c.Request.Context()).Error(message, zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: message})
	}
}
