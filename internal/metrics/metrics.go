package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Uploads counts upload requests by kind (thumbnail, video) and outcome
	// (the error kind, or "ok").
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tubely",
		Name:      "uploads_total",
		Help:      "Upload requests by asset kind and outcome",
	}, []string{"kind", "outcome"})

	MediaProcessDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tubely",
		Name:      "media_process_seconds",
		Help:      "Wall time of ffprobe/ffmpeg invocations",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"tool"})

	MediaProcessFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tubely",
		Name:      "media_process_failures_total",
		Help:      "ffprobe/ffmpeg invocations that exited non-zero or timed out",
	}, []string{"tool"})

	StagingFilesRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tubely",
		Name:      "staging_files_removed_total",
		Help:      "Stale staging files removed by the sweeper",
	})
)
