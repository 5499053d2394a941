package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"brainbank/video-ingestion/internal/service"
)

// ReminderHandler serves reminder scheduling and cancellation.
type ReminderHandler struct {
	reminders *service.ReminderService
}

// NewReminderHandler creates a new ReminderHandler instance.
func NewReminderHandler(reminders *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

// CreateReminderRequest is the payload for scheduling a reminder. Time is
// an "HH:mm" clock time; anything unparseable falls back to the default
// delivery time.
type CreateReminderRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
	Time    string `json:"time"`
}

// CreateReminder schedules a one-shot reminder at the next occurrence of
// the requested clock time.
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	var req CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", "Invalid request payload: "+err.Error())
		return
	}

	reminder, err := h.reminders.Schedule(c.Request.Context(), req.UserID, req.Message, req.Time)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reminder_id": reminder.ID,
		"fire_at":     reminder.FireAt,
	})
}

// ListReminders returns a user's pending reminders.
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	reminders, err := h.reminders.List(c.Request.Context(), c.Param("userID"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders, "count": len(reminders)})
}

// CancelReminder cancels a single reminder by id.
func (h *ReminderHandler) CancelReminder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", "Invalid reminder id")
		return
	}

	if err := h.reminders.Cancel(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CancelAllReminders cancels every pending reminder for a user.
func (h *ReminderHandler) CancelAllReminders(c *gin.Context) {
	count, err := h.reminders.CancelAll(c.Request.Context(), c.Param("userID"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cancelled": count})
}
