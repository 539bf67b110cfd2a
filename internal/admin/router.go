package admin

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aryorithm/blackbox/internal/middleware"
)

// NewRouter constructs a ServeMux with the admin API routes registered.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/v1/blocklist", h.Blocklist)

	return middleware.RequestID(mux)
}
