package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"brainbank/video-ingestion/internal/db/models"
	"brainbank/video-ingestion/internal/db/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// VideoHandler serves video reads and the view counter.
type VideoHandler struct {
	videos repository.VideoRepository
}

// NewVideoHandler creates a new VideoHandler instance.
func NewVideoHandler(videos repository.VideoRepository) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// VideoResponse is the API shape of a video record.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoResponse struct {
	ID           string   `json:"id"`
	OwnerID      string   `json:"owner_id"`
	VideoURL     *string  `json:"video_url"`
	ThumbnailURL *string  `json:"thumbnail_url"`
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Tags         []string `json:"tags"`
	Quotes       []string `json:"quotes"`
	Status       string   `json:"status"`
	ErrorMessage *string  `json:"error_message,omitempty"`
	LikeCount    int      `json:"like_count"`
	SaveCount    int      `json:"save_count"`
	CommentCount int      `json:"comment_count"`
	BrainCount   int      `json:"brain_count"`
	ViewCount    int      `json:"view_count"`
	CreatedAt    string   `json:"created_at"`
}

func toVideoResponse(v *models.Video) VideoResponse {
	return VideoResponse{
		ID:           v.ID,
		OwnerID:      v.OwnerID,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Title:        v.Title,
		Description:  v.Description,
		Tags:         v.Tags,
		Quotes:       v.Quotes,
		Status:       string(v.ProcessingStatus),
		ErrorMessage: v.ErrorMessage,
		LikeCount:    v.LikeCount,
		SaveCount:    v.SaveCount,
		CommentCount: v.CommentCount,
		BrainCount:   v.BrainCount,
		ViewCount:    v.ViewCount,
		CreatedAt:    v.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ListVideos returns videos newest first, optionally filtered by owner.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	limit, offset := paginate(c)

	var (
		videos []*models.Video
		err    error
	)
	if ownerID := c.Query("owner_id"); ownerID != "" {
		videos, err = h.videos.ListByOwner(c.Request.Context(), ownerID, limit, offset)
	} else {
		videos, err = h.videos.List(c.Request.Context(), limit, offset)
	}
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, toVideoResponse(v))
	}
	c.JSON(http.StatusOK, gin.H{"videos": out, "count": len(out)})
}

// GetVideo returns a single video.
func (h *VideoHandler) GetVideo(c *gin.Context) {
	video, err := h.videos.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVideoResponse(video))
}

// GetVideoStatus returns just the processing state, for pipeline polling.
func (h *VideoHandler) GetVideoStatus(c *gin.Context) {
	video, err := h.videos.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"video_id":      video.ID,
		"status":        string(video.ProcessingStatus),
		"error_message": video.ErrorMessage,
	})
}

// RecordView increments the view counter.
func (h *VideoHandler) RecordView(c *gin.Context) {
	if err := h.videos.IncrementViewCount(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func paginate(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
