package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brainbank/video-ingestion/internal/db/repository"
	"brainbank/video-ingestion/internal/service"
)

// UserHandler serves user profiles and statistics.
type UserHandler struct {
	users repository.AppUserRepository
	stats *service.StatsService
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(users repository.AppUserRepository, stats *service.StatsService) *UserHandler {
	return &UserHandler{users: users, stats: stats}
}

// GetUserStats returns a user's statistics, served from the cache when
// fresh and recounted otherwise.
func (h *UserHandler) GetUserStats(c *gin.Context) {
	stats, err := h.stats.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RefreshUserStats forces a full recount, bypassing the cache.
func (h *UserHandler) RefreshUserStats(c *gin.Context) {
	stats, err := h.stats.Refresh(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetUser returns a user profile with their last recomputed statistics.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
