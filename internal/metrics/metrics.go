// Package metrics registers the Prometheus instruments the pipeline reports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UploadsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brainbank_uploads_started_total",
		Help: "Upload intakes that created a placeholder record.",
	})

	UploadsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brainbank_uploads_completed_total",
		Help: "Uploads whose bytes reached object storage.",
	})

	UploadsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brainbank_uploads_failed_total",
		Help: "Uploads that ended in the error status.",
	})

	UploadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "brainbank_upload_duration_seconds",
		Help:    "Wall time from intake to durable URL.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	UploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "brainbank_upload_bytes",
		Help:    "Size of uploaded video files.",
		Buckets: prometheus.ExponentialBuckets(1<<20, 4, 8),
	})

	EnrichmentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brainbank_enrichment_jobs_total",
		Help: "Enrichment job outcomes by result.",
	}, []string{"result"})

	EnrichmentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "brainbank_enrichment_duration_seconds",
		Help:    "Wall time of a full transcribe and summarize pass.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brainbank_chat_requests_total",
		Help: "Chat requests by whether any transcript context was found.",
	}, []string{"grounded"})

	RemindersDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brainbank_reminders_delivered_total",
		Help: "Reminders handed to the event publisher.",
	})
)
