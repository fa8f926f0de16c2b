package fileflow

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsOnce     sync.Once
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fileflow_web",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Requests sent to the FileFlow backend.",
		}, []string{"method", "path", "status"})

		requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fileflow_web",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests sent to the FileFlow backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"})
	})
}

func observeRequest(method, endpoint string, status int, elapsed time.Duration) {
	initMetrics()
	path := metricPath(endpoint)
	requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// metricPath strips the query and replaces numeric segments so label
// cardinality stays bounded.
func metricPath(endpoint string) string {
	path, _, _ := strings.Cut(endpoint, "?")
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}
