package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainbank/video-ingestion/internal/config"
	"brainbank/video-ingestion/internal/service"
)

func newReminderRouter(repo *stubReminderRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	reminders := service.NewReminderService(repo, &stubPublisher{}, &config.NotificationsConfig{
		DefaultHour:   8,
		DefaultMinute: 0,
		PollInterval:  time.Minute,
	})

	r := gin.New()
	h := NewReminderHandler(reminders)
	r.POST("/api/v1/reminders", h.CreateReminder)
	r.GET("/api/v1/reminders/:userID", h.ListReminders)
	r.DELETE("/api/v1/reminders/:id", h.CancelReminder)
	r.DELETE("/api/v1/reminders/user/:userID", h.CancelAllReminders)
	return r
}

func postReminder(t *testing.T, router *gin.Engine, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateReminder(t *testing.T) {
	repo := newStubReminderRepo()
	router := newReminderRouter(repo)

	w := postReminder(t, router, map[string]string{
		"user_id": "user-1",
		"message": "water the plants",
		"time":    "09:30",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.reminders, 1)
	for _, r := range repo.reminders {
		assert.Equal(t, 9, r.FireAt.Hour())
		assert.Equal(t, 30, r.FireAt.Minute())
	}
}

func TestCreateReminderMalformedTimeFallsBack(t *testing.T) {
	repo := newStubReminderRepo()
	router := newReminderRouter(repo)

	for _, badTime := range []string{"25:99", "noon", ""} {
		w := postReminder(t, router, map[string]string{
			"user_id": "user-1",
			"message": "stretch",
			"time":    badTime,
		})
		require.Equal(t, http.StatusCreated, w.Code, "time %q", badTime)
	}

	require.Len(t, repo.reminders, 3)
	for _, r := range repo.reminders {
		assert.Equal(t, 8, r.FireAt.Hour())
		assert.Equal(t, 0, r.FireAt.Minute())
	}
}

func TestCreateReminderValidation(t *testing.T) {
	router := newReminderRouter(newStubReminderRepo())

	w := postReminder(t, router, map[string]string{"message": "no user"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postReminder(t, router, map[string]string{"user_id": "user-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelAllReminders(t *testing.T) {
	repo := newStubReminderRepo()
	router := newReminderRouter(repo)

	for i := 0; i < 2; i++ {
		postReminder(t, router, map[string]string{
			"user_id": "user-1",
			"message": "msg",
			"time":    "09:00",
		})
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reminders/user/user-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cancelled":2}`, w.Body.String())
	assert.Empty(t, repo.reminders)
}

func TestCancelReminderInvalidID(t *testing.T) {
	router := newReminderRouter(newStubReminderRepo())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reminders/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
