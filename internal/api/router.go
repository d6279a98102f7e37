package api

import (
	"log/slog"
	"net/http"

	"route-alternatives/internal/api/handlers"
	"route-alternatives/internal/widget"
)

// NewRouter exposes one mounted widget over HTTP. Every handler reaches the
// widget through runner so state stays confined to the loop goroutine.
func NewRouter(runner handlers.Runner, w *widget.Widget, clicker handlers.Clicker, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	routes := &handlers.RouteHandler{
		Runner:  runner,
		Widget:  w,
		Surface: clicker,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes", routes.List)
	mux.HandleFunc("/routes/select", routes.Select)
	mux.HandleFunc("/clicks", routes.Click)
	mux.HandleFunc("/layers", routes.Layers)

	return loggingMiddleware(logger, mux)
}
