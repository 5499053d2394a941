package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"brainbank/video-ingestion/pkg/logger"
)

// Server wraps the asynq worker that drains the enrichment queue.
type Server struct {
	asynqServer *asynq.Server
	mux         *asynq.ServeMux
}

// NewServer creates the worker server with the enrichment handler registered.
func NewServer(redisURL string, concurrency int, handler *EnrichmentHandler) (*Server, error) {
	redisOpt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				QueueEnrichment: 10,
			},
			StrictPriority: false,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Log.Error("Task failed",
					zap.String("type", task.Type()),
					zap.Error(err),
				)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(TypeEnrichVideo, handler)

	return &Server{
		asynqServer: srv,
		mux:         mux,
	}, nil
}

// Run starts processing and blocks until shutdown.
func (s *Server) Run() error {
	logger.Log.Info("Starting task processing server")
	return s.asynqServer.Run(s.mux)
}

// Shutdown stops the server gracefully, waiting for in-flight tasks.
func (s *Server) Shutdown() {
	logger.Log.Info("Shutting down task processing server")
	s.asynqServer.Shutdown()
}
