// Package handler contains the gin HTTP handlers for the API surface.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/service"
	"brainbank/video-ingestion/pkg/logger"
)

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func respondError(c *gin.Context, status int, errText, message string) {
	c.JSON(status, ErrorResponse{
		Timestamp: time.Now(),
		Status:    status,
		Error:     errText,
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}

// handleError maps service and database errors onto HTTP responses.
func handleError(c *gin.Context, err error) {
	switch {
	case isValidationError(err):
		logger.Log.Warn("Validation error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "Bad Request", err.Error())
	case db.IsNotFound(err):
		respondError(c, http.StatusNotFound, "Not Found", "The requested resource does not exist")
	case db.IsForeignKeyViolation(err):
		respondError(c, http.StatusUnprocessableEntity, "Unprocessable Entity", "A referenced resource does not exist")
	case db.IsDuplicateKey(err):
		respondError(c, http.StatusConflict, "Conflict", "The resource already exists")
	default:
		logger.Log.Error("Request failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
	}
}

func isValidationError(err error) bool {
	var verr *service.ValidationError
	return errors.As(err, &verr)
}
