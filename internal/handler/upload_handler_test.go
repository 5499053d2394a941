package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainbank/video-ingestion/internal/config"
	"brainbank/video-ingestion/internal/service"
)

func newUploadRouter(repo *stubVideoRepo, enq *stubEnqueuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	uploads := service.NewUploadService(repo, stubStorage{}, enq, &stubPublisher{}, &config.UploadConfig{
		MaxFileBytes: 1 << 20,
	})

	r := gin.New()
	r.POST("/api/v1/videos/upload", NewUploadHandler(uploads).HandleUpload)
	return r
}

func multipartUpload(t *testing.T, ownerID, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("owner_id", ownerID))

	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestHandleUploadAccepted(t *testing.T) {
	repo := newStubVideoRepo()
	enq := &stubEnqueuer{}
	router := newUploadRouter(repo, enq)

	body, contentType := multipartUpload(t, "user-1", "Morning Routine.mp4", []byte("mp4 bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^morning_routine_\d+_[0-9a-f]{8}$`, resp.VideoID)
	assert.Contains(t, resp.VideoURL, resp.VideoID)
	assert.Equal(t, "uploading", resp.Status)

	assert.Equal(t, []string{resp.VideoID}, enq.enqueued)
}

func TestHandleUploadIdempotentRetryReturnsOK(t *testing.T) {
	repo := newStubVideoRepo()
	router := newUploadRouter(repo, &stubEnqueuer{})

	send := func() *httptest.ResponseRecorder {
		body, contentType := multipartUpload(t, "user-1", "clip.mp4", []byte("bytes"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(headerIdempotencyKey, "key-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send()
	require.Equal(t, http.StatusAccepted, first.Code)

	second := send()
	require.Equal(t, http.StatusOK, second.Code)

	var firstResp, secondResp UploadResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResp))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResp))
	assert.Equal(t, firstResp.VideoID, secondResp.VideoID)
	assert.Len(t, repo.videos, 1)
}

func TestHandleUploadMissingFields(t *testing.T) {
	router := newUploadRouter(newStubVideoRepo(), &stubEnqueuer{})

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("owner_id", "user-1"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/upload", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing owner", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		fw, err := w.CreateFormFile("file", "clip.mp4")
		require.NoError(t, err)
		_, err = fw.Write([]byte("bytes"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/upload", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleUploadOverSizeLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	uploads := service.NewUploadService(newStubVideoRepo(), stubStorage{}, &stubEnqueuer{}, &stubPublisher{}, &config.UploadConfig{
		MaxFileBytes: 4,
	})
	router := gin.New()
	router.POST("/api/v1/videos/upload", NewUploadHandler(uploads).HandleUpload)

	body, contentType := multipartUpload(t, "user-1", "clip.mp4", []byte("more than four bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bad Request", resp.Error)
	assert.Contains(t, resp.Message, "exceeds limit")
}
