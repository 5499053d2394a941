package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainbank/video-ingestion/internal/db/models"
)

func newBrainRouter(brain *stubBrainRepo, videos *stubVideoRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewBrainHandler(brain, videos)
	r.POST("/api/v1/brain", h.SaveEntry)
	r.GET("/api/v1/brain/:userID", h.ListEntries)
	r.DELETE("/api/v1/brain/:userID/:videoID", h.DeleteEntry)
	return r
}

func postBrainSave(t *testing.T, router *gin.Engine, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/brain", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func readyVideo(videos *stubVideoRepo, id, transcript string) {
	v := &models.Video{
		ID:               id,
		OwnerID:          "user-1",
		Transcript:       &transcript,
		ProcessingStatus: models.StatusReady,
	}
	videos.videos[id] = v
}

func TestSaveBrainEntry(t *testing.T) {
	brain := newStubBrainRepo()
	videos := newStubVideoRepo()
	readyVideo(videos, "clip_1_aa", "the full transcript")
	router := newBrainRouter(brain, videos)

	w := postBrainSave(t, router, map[string]string{
		"user_id":  "user-2",
		"video_id": "clip_1_aa",
		"quote":    "a memorable line",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	entry := brain.entries["user-2/clip_1_aa"]
	require.NotNil(t, entry)
	assert.Equal(t, "a memorable line", entry.Quote)
	assert.Equal(t, "the full transcript", entry.Transcript)
}

func TestSaveBrainEntryTwiceIsNoOp(t *testing.T) {
	brain := newStubBrainRepo()
	videos := newStubVideoRepo()
	readyVideo(videos, "clip_1_aa", "transcript")
	router := newBrainRouter(brain, videos)

	payload := map[string]string{"user_id": "user-2", "video_id": "clip_1_aa"}

	first := postBrainSave(t, router, payload)
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Contains(t, first.Body.String(), `"saved":true`)

	second := postBrainSave(t, router, payload)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), `"saved":false`)

	assert.Len(t, brain.entries, 1)
}

func TestSaveBrainEntryUnknownVideo(t *testing.T) {
	router := newBrainRouter(newStubBrainRepo(), newStubVideoRepo())

	w := postBrainSave(t, router, map[string]string{
		"user_id":  "user-2",
		"video_id": "missing",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteBrainEntry(t *testing.T) {
	brain := newStubBrainRepo()
	videos := newStubVideoRepo()
	readyVideo(videos, "clip_1_aa", "transcript")
	router := newBrainRouter(brain, videos)

	postBrainSave(t, router, map[string]string{"user_id": "user-2", "video_id": "clip_1_aa"})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/brain/user-2/clip_1_aa", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, brain.entries)
}
