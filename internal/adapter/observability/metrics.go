package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider and operation",
		},
		[]string{"provider", "operation"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider", "operation"},
	)

	DocumentsGeneratedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "documents_generated_total",
			Help: "Total number of cover-letter/referral-email pairs generated",
		},
	)
	PostingsParsedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postings_parsed_total",
			Help: "Total number of job-posting parse attempts by outcome",
		},
		[]string{"outcome"},
	)
	ChatRepliesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_replies_total",
			Help: "Total number of assistant chat replies produced",
		},
	)

	RemindersScheduled = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reminders_scheduled",
			Help: "Number of interview reminders currently scheduled",
		},
	)
	RemindersFiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminders_fired_total",
			Help: "Total number of interview reminders fired",
		},
	)
)

// InitMetrics registers all collectors once per process.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(DocumentsGeneratedTotal)
	prometheus.MustRegister(PostingsParsedTotal)
	prometheus.MustRegister(ChatRepliesTotal)
	prometheus.MustRegister(RemindersScheduled)
	prometheus.MustRegister(RemindersFiredTotal)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}
