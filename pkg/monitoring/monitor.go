package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	QuizAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursehub_quiz_attempts_total",
			Help: "Graded quiz attempts",
		},
		[]string{"passed"},
	)

	SectionCompletions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coursehub_section_completions_total",
			Help: "Sections newly added to a learner's completion set",
		},
	)

	ReflectionsSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coursehub_reflections_saved_total",
			Help: "Accepted reflection submissions",
		},
	)

	PayloadRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursehub_payload_rejections_total",
			Help: "Section payloads rejected by validation",
		},
		[]string{"type"},
	)

	VisitFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coursehub_visit_record_failures_total",
			Help: "Best-effort visit writes that failed and were skipped",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(QuizAttempts)
	prometheus.MustRegister(SectionCompletions)
	prometheus.MustRegister(ReflectionsSaved)
	prometheus.MustRegister(PayloadRejections)
	prometheus.MustRegister(VisitFailures)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
