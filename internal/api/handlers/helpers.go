package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// Runner executes fn on the goroutine that owns the widget.
type Runner interface {
	Do(ctx context.Context, fn func()) error
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeBody reads exactly one JSON object with no unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// run executes fn on the widget loop and maps loop failures to a response.
// fn is skipped if the request is gone by the time the loop reaches it, so a
// caller that got an error never sees its click applied.
func run(w http.ResponseWriter, r *http.Request, runner Runner, fn func()) bool {
	ctx := r.Context()
	err := runner.Do(ctx, func() {
		if ctx.Err() != nil {
			return
		}
		fn()
	})
	if err == nil {
		return true
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.Warn("request abandoned", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
		return false
	}

	slog.Error("widget loop unavailable", "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, r, http.StatusServiceUnavailable, "widget unavailable")
	return false
}
