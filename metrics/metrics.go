package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "commandments",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commandments",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "commandments",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commandments",
			Subsystem: "engine",
			Name:      "submissions_total",
			Help:      "Daily submissions by outcome.",
		},
		[]string{"result"},
	)

	pointsAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "commandments",
			Subsystem: "engine",
			Name:      "points_awarded_total",
			Help:      "Points credited by successful submissions.",
		},
	)

	waterUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commandments",
			Subsystem: "engine",
			Name:      "water_updates_total",
			Help:      "Water intake updates by outcome.",
		},
		[]string{"result"},
	)

	leaderboardCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commandments",
			Subsystem: "leaderboard",
			Name:      "cache_lookups_total",
			Help:      "Leaderboard cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		submissions,
		pointsAwarded,
		waterUpdates,
		leaderboardCache,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request count, latency and in-flight requests per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordSubmission counts a submission outcome and, on success, the points it awarded.
func RecordSubmission(result string, points int) {
	submissions.WithLabelValues(result).Inc()
	if points > 0 {
		pointsAwarded.Add(float64(points))
	}
}

// RecordWater counts a water update outcome.
func RecordWater(result string) {
	waterUpdates.WithLabelValues(result).Inc()
}

// RecordLeaderboardCache counts a cache hit or miss.
func RecordLeaderboardCache(hit bool) {
	if hit {
		leaderboardCache.WithLabelValues("hit").Inc()
		return
	}
	leaderboardCache.WithLabelValues("miss").Inc()
}
