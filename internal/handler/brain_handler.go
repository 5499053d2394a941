package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brainbank/video-ingestion/internal/db/models"
	"brainbank/video-ingestion/internal/db/repository"
)

// BrainHandler serves second-brain saves and listings.
type BrainHandler struct {
	brain  repository.SecondBrainRepository
	videos repository.VideoRepository
}

// NewBrainHandler creates a new BrainHandler instance.
func NewBrainHandler(brain repository.SecondBrainRepository, videos repository.VideoRepository) *BrainHandler {
	return &BrainHandler{brain: brain, videos: videos}
}

// SaveBrainEntryRequest is the payload for saving a video to the brain.
type SaveBrainEntryRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	VideoID string `json:"video_id" binding:"required"`
	Quote   string `json:"quote"`
}

// SaveEntry saves a video into the user's second brain. The transcript is
// copied onto the entry at save time. Saving the same video again is a
// no-op and reports saved=false.
func (h *BrainHandler) SaveEntry(c *gin.Context) {
	var req SaveBrainEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", "Invalid request payload: "+err.Error())
		return
	}

	video, err := h.videos.GetByID(c.Request.Context(), req.VideoID)
	if err != nil {
		handleError(c, err)
		return
	}

	transcript := ""
	if video.Transcript != nil {
		transcript = *video.Transcript
	}

	entry := models.NewSecondBrainEntry(req.UserID, req.VideoID, req.Quote, transcript)
	inserted, err := h.brain.Save(c.Request.Context(), entry)
	if err != nil {
		handleError(c, err)
		return
	}

	status := http.StatusCreated
	if !inserted {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"entry_id": entry.ID, "saved": inserted})
}

// ListEntries returns a user's saved entries, newest first.
func (h *BrainHandler) ListEntries(c *gin.Context) {
	limit, offset := paginate(c)

	entries, err := h.brain.ListByUser(c.Request.Context(), c.Param("userID"), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// DeleteEntry removes a saved entry and decrements the video's counter.
func (h *BrainHandler) DeleteEntry(c *gin.Context) {
	if err := h.brain.Delete(c.Request.Context(), c.Param("userID"), c.Param("videoID")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
