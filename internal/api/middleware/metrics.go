package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dagmawibabi/telesight/internal/metrics"
)

// statusWriter wraps http.ResponseWriter to capture status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Metrics returns middleware that records Prometheus metrics.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		metrics.HTTPRequestsTotal.WithLabelValues(
			r.Method, path, strconv.Itoa(wrapped.status),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			r.Method, path,
		).Observe(duration)
	})
}

// normalizePath collapses archive and post ids to avoid high
// cardinality in metric labels.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/archives/") {
		return path
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	// parts[0] == "archives", parts[1] == id
	norm := []string{"archives", ":id"}
	for i := 2; i < len(parts); i++ {
		// /archives/:id/posts/:mid/...
		if i == 3 && parts[2] == "posts" {
			norm = append(norm, ":mid")
			continue
		}
		norm = append(norm, parts[i])
	}
	if len(parts) < 2 {
		return path
	}
	return "/" + strings.Join(norm, "/")
}
