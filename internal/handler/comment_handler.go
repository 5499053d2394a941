package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brainbank/video-ingestion/internal/db/models"
	"brainbank/video-ingestion/internal/db/repository"
)

// CommentHandler serves comment creation and listing.
type CommentHandler struct {
	comments repository.CommentRepository
}

// NewCommentHandler creates a new CommentHandler instance.
func NewCommentHandler(comments repository.CommentRepository) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// CreateCommentRequest is the payload for posting a comment.
type CreateCommentRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

// CreateComment posts a comment on a video. The video's comment counter is
// bumped in the same transaction as the insert.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", "Invalid request payload: "+err.Error())
		return
	}

	comment := models.NewComment(c.Param("id"), req.UserID, req.Text)
	if err := h.comments.Create(c.Request.Context(), comment); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListComments returns a video's comments, newest first.
func (h *CommentHandler) ListComments(c *gin.Context) {
	limit, offset := paginate(c)

	comments, err := h.comments.ListByVideo(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments, "count": len(comments)})
}
