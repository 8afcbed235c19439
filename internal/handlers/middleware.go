package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gl-reconciliation-service/internal/logger"
)

const (
	requestIDHeader = "X-Request-ID"
	companyIDHeader = "X-Company-ID"
)

type companyIDKey struct{}

// companyIDFrom returns the company set by companyMiddleware.
func companyIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(companyIDKey{}).(int64)
	return id
}

// requestIDMiddleware keeps an incoming request id or assigns a new one, and
// attaches a logger carrying it to the request context.
func requestIDMiddleware(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)
			ctx := logger.WithContext(r.Context(), log.With(zap.String("request_id", id)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		logger.FromContext(r.Context()).Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("latency", time.Since(start)),
			zap.String("remote_addr", r.RemoteAddr),
		)
	})
}

// companyMiddleware rejects requests without a positive X-Company-ID.
func companyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get(companyIDHeader), 10, 64)
		if err != nil || id <= 0 {
			respondWithError(w, http.StatusBadRequest, "X-Company-ID header must be a positive integer")
			return
		}
		ctx := context.WithValue(r.Context(), companyIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
