package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brainbank/video-ingestion/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Upload   *UploadHandler
	Video    *VideoHandler
	Comment  *CommentHandler
	Brain    *BrainHandler
	Chat     *ChatHandler
	Reminder *ReminderHandler
	User     *UserHandler
	Health   *HealthHandler
}

// NewRouter builds the gin engine. Everything under /api/v1 requires an API
// key; health and metrics stay open for probes and scrapers.
func NewRouter(h *Handlers, apiKeys []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	router.GET("/health", h.Health.LivenessProbe)
	router.GET("/health/ready", h.Health.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.NewAPIKeyAuth(apiKeys).Middleware())

	videos := api.Group("/videos")
	{
		videos.POST("/upload", h.Upload.HandleUpload)
		videos.GET("", h.Video.ListVideos)
		videos.GET("/:id", h.Video.GetVideo)
		videos.GET("/:id/status", h.Video.GetVideoStatus)
		videos.POST("/:id/view", h.Video.RecordView)
		videos.POST("/:id/comments", h.Comment.CreateComment)
		videos.GET("/:id/comments", h.Comment.ListComments)
	}

	brain := api.Group("/brain")
	{
		brain.POST("", h.Brain.SaveEntry)
		brain.GET("/:userID", h.Brain.ListEntries)
		brain.DELETE("/:userID/:videoID", h.Brain.DeleteEntry)
	}

	api.POST("/chat", h.Chat.HandleChat)
	api.GET("/chat/:userID", h.Chat.GetChatHistory)

	reminders := api.Group("/reminders")
	{
		reminders.POST("", h.Reminder.CreateReminder)
		reminders.GET("/:userID", h.Reminder.ListReminders)
		reminders.DELETE("/:id", h.Reminder.CancelReminder)
		reminders.DELETE("/user/:userID", h.Reminder.CancelAllReminders)
	}

	users := api.Group("/users")
	{
		users.GET("/:id", h.User.GetUser)
		users.GET("/:id/stats", h.User.GetUserStats)
		users.POST("/:id/stats/refresh", h.User.RefreshUserStats)
	}

	return router
}
