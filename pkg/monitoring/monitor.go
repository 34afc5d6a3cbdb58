package monitoring

import (
	"strconv"
	"sync"
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

	// PlansGenerated source: catalog | synthetic
	PlansGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learning_paths_generated_total",
			Help: "Total number of generated learning paths",
		},
		[]string{"source"},
	)

	// ResourceLookups outcome: hit | fetched | synthesized | cancelled
	ResourceLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resource_lookups_total",
			Help: "Video resource lookups by outcome",
		},
		[]string{"outcome"},
	)

	DailyGoalsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "daily_goals_completed_total",
			Help: "Total number of completed daily goals",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(PlansGenerated)
		prometheus.MustRegister(ResourceLookups)
		prometheus.MustRegister(DailyGoalsCompleted)
	})
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
