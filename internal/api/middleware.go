package api

import (
	"log/slog"
	"net/http"
	"time"
)

// loggedResponse remembers what a handler sent so the request log line can
// report it. Only the first status counts, matching what net/http puts on the wire.
type loggedResponse struct {
	http.ResponseWriter
	status  int
	written int64
}

func (lr *loggedResponse) WriteHeader(code int) {
	if lr.status == 0 {
		lr.status = code
	}
	lr.ResponseWriter.WriteHeader(code)
}

func (lr *loggedResponse) Write(p []byte) (int, error) {
	if lr.status == 0 {
		lr.status = http.StatusOK
	}
	n, err := lr.ResponseWriter.Write(p)
	lr.written += int64(n)
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (lr *loggedResponse) Unwrap() http.ResponseWriter { return lr.ResponseWriter }

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lr := &loggedResponse{ResponseWriter: w}

		next.ServeHTTP(lr, r)

		level := slog.LevelInfo
		if lr.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", lr.status,
			"bytes", lr.written,
			"dur_ms", time.Since(start).Milliseconds(),
		)
	})
}
