// Package telemetry exposes Prometheus metrics for the portal service.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all portal Prometheus metrics
type Metrics struct {
	// Complaint metrics
	ComplaintsSubmitted *prometheus.CounterVec
	ComplaintsEscalated prometheus.Counter
	PriorityScore       prometheus.Histogram
	AnalysisDuration    prometheus.Histogram
	AnalysisFailed      prometheus.Counter

	// Preview metrics
	PreviewsServed prometheus.Counter
	PreviewsStale  prometheus.Counter

	// Attendance metrics
	PunchesRecorded  prometheus.Counter
	PunchesAnomalous *prometheus.CounterVec
	PunchesThrottled prometheus.Counter

	// Sentiment sidecar metrics
	SentimentRequests prometheus.Counter
	SentimentFailures prometheus.Counter
}

// Provider wraps the metrics registry for the service.
type Provider struct {
	Metrics *Metrics
}

// NewProvider initializes the Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{Metrics: initMetrics()}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initComplaintMetrics(m)
	initPreviewMetrics(m)
	initAttendanceMetrics(m)
	initSentimentMetrics(m)
	return m
}

func initComplaintMetrics(m *Metrics) {
	m.ComplaintsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_complaints_submitted_total",
		Help: "Total complaints lodged, by category and initial status",
	}, []string{"category", "status"})

	m.ComplaintsEscalated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_complaints_escalated_total",
		Help: "Total complaints auto-escalated at submission",
	})

	m.PriorityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "portal_priority_score",
		Help:    "Distribution of computed priority scores",
		Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.75, 0.8, 0.9, 1.0},
	})

	m.AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "portal_analysis_duration_seconds",
		Help:    "Time to score a single complaint",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	})

	m.AnalysisFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_analysis_failed_total",
		Help: "Total complaint analyses that failed",
	})
}

func initPreviewMetrics(m *Metrics) {
	m.PreviewsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_previews_served_total",
		Help: "Total live scoring previews served",
	})

	m.PreviewsStale = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_previews_stale_total",
		Help: "Total previews superseded before completion",
	})
}

func initAttendanceMetrics(m *Metrics) {
	m.PunchesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_attendance_punches_total",
		Help: "Total attendance punches recorded",
	})

	m.PunchesAnomalous = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_attendance_anomalies_total",
		Help: "Total punches flagged as anomalous, by reason",
	}, []string{"reason"})

	m.PunchesThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_attendance_throttled_total",
		Help: "Total punches rejected by the rate limiter",
	})
}

func initSentimentMetrics(m *Metrics) {
	m.SentimentRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_sentiment_requests_total",
		Help: "Total requests sent to the sentiment sidecar",
	})

	m.SentimentFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_sentiment_failures_total",
		Help: "Total failed sentiment sidecar requests",
	})
}
