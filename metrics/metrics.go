// metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AuditWriteFailures is the operator-visible channel for audit sink
	// problems. The recorder swallows persistence errors by contract, so
	// this counter plus the error log is the only way they surface.
	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "revguard_audit_write_failures_total",
		Help: "Audit log entries dropped because the sink rejected them.",
	})

	AuditIndexFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "revguard_audit_index_failures_total",
		Help: "Audit log entries that failed best-effort search indexing.",
	})

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revguard_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "revguard_http_request_duration_seconds",
		Help:    "HTTP request latency by method, path template and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// Middleware observes request latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry for the /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
