// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_backend_requests_total",
			Help: "Total number of requests sent to the ATS backend",
		},
		[]string{"endpoint", "outcome"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ats_backend_request_duration_seconds",
			Help:    "Duration of ATS backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	PageSessionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ats_page_sessions_active",
			Help: "Number of mounted page sessions per page kind",
		},
		[]string{"kind"},
	)

	NoticesPushed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_notices_total",
			Help: "Total number of user notices raised, by level",
		},
		[]string{"level"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_http_requests_total",
			Help: "Total number of console API requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ats_http_request_duration_seconds",
			Help:    "Duration of console API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	UploadFilesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_upload_files_rejected_total",
			Help: "Resume files skipped when added to an upload batch",
		},
		[]string{"reason"},
	)
)

// Outcome labels for BackendRequests.
const (
	OutcomeOK          = "ok"
	OutcomeBackendErr  = "backend_error"
	OutcomeUnavailable = "unavailable"
)
