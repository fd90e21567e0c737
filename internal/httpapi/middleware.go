package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Proger1298/gaming-server/internal/metrics"
)

// statusRecorder captures the status code a handler wrote, since
// http.ResponseWriter gives no way to read it back afterward.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs every request at info with method/path/status/duration,
// and records it against the request-count and latency histograms.
func withLogging(logger *zap.Logger, route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		elapsed := time.Since(start)
		metrics.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
		)
	}
}

// withRecovery turns a panic anywhere downstream into a 500 response instead
// of killing the connection.
func withRecovery(logger *zap.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered in http handler", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				w.Header().Set("Content-Type", "text/plain")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Internal Server Error! The server encountered an unexpected condition! Try again later!"))
			}
		}()
		next(w, r)
	}
}

func wrap(logger *zap.Logger, route string, h http.HandlerFunc) http.HandlerFunc {
	return withRecovery(logger, withLogging(logger, route, h))
}
