package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brainbank/video-ingestion/internal/service"
	"brainbank/video-ingestion/pkg/logger"
)

const headerIdempotencyKey = "X-Idempotency-Key"

// UploadHandler handles video intake requests.
type UploadHandler struct {
	uploads *service.UploadService
}

// NewUploadHandler creates a new UploadHandler instance.
func NewUploadHandler(uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// UploadResponse is returned when an upload is accepted.
type UploadResponse struct {
	VideoID  string `json:"video_id"`
	VideoURL string `json:"video_url,omitempty"`
	Status   string `json:"status"`
}

// HandleUpload accepts a multipart video upload and starts the pipeline.
// Enrichment continues in the background, so the response is 202.
func (h *UploadHandler) HandleUpload(c *gin.Context) {
	ownerID := c.PostForm("owner_id")
	if ownerID == "" {
		respondError(c, http.StatusBadRequest, "Bad Request", "owner_id form field is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", "file form field is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handleError(c, err)
		return
	}
	defer func() { _ = file.Close() }()

	logger.Log.Info("Received upload",
		zap.String("ownerId", ownerID),
		zap.String("filename", fileHeader.Filename),
		zap.Int64("size", fileHeader.Size),
	)

	result, err := h.uploads.Upload(c.Request.Context(), &service.UploadRequest{
		OwnerID:        ownerID,
		Filename:       fileHeader.Filename,
		Size:           fileHeader.Size,
		IdempotencyKey: c.GetHeader(headerIdempotencyKey),
		Body:           file,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	resp := UploadResponse{
		VideoID: result.Video.ID,
		Status:  string(result.Video.ProcessingStatus),
	}
	if result.Video.VideoURL != nil {
		resp.VideoURL = *result.Video.VideoURL
	}

	status := http.StatusAccepted
	if result.Duplicate {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}
