package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_jobs_enqueued_total",
		Help: "Jobs handed to the queue, by stream.",
	}, []string{"stream"})

	// result is one of: ok, retry, dead.
	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_jobs_processed_total",
		Help: "Job processing outcomes, by stream and result.",
	}, []string{"stream", "result"})

	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "queue_job_duration_seconds",
		Help:    "Wall time spent handling one job.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stream"})

	PushSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "push_sends_total",
		Help: "Push gateway outcomes: ok, unregistered, error.",
	}, []string{"result"})
)
