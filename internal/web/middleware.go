package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/common/metrics"
)

const headerRequestID = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID returns the request ID stored by the requestID middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// requestID propagates an inbound X-Request-ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic while serving request", map[string]interface{}{
					logger.FieldRequestID: RequestID(r.Context()),
					"path":                r.URL.Path,
					"panic":               fmt.Sprint(rec),
				})
				writeError(w, apperrors.NewInternalError(fmt.Errorf("panic: %v", rec)), nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// instrument logs and counts every request under its route pattern.
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		s.logger.Info("request served", map[string]interface{}{
			logger.FieldRequestID: RequestID(r.Context()),
			"method":              r.Method,
			"route":               route,
			"status":              status,
			"durationMs":          time.Since(start).Milliseconds(),
			"remote":              clientKey(r),
		})
	})
}

// rateLimit rejects clients over their budget with 429. A nil limiter
// disables it.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientKey(r)
		if !s.limiter.Allow(client) {
			metrics.HTTPRateLimited.Inc()
			s.logger.Warn("rate limit exceeded", map[string]interface{}{
				logger.FieldRequestID: RequestID(r.Context()),
				"remote":              client,
			})
			w.Header().Set("Retry-After", "1")
			writeError(w, apperrors.NewRateLimitedError(client), nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
