package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Control
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /diagnostics", h.Diagnostics)
	mux.HandleFunc("GET /run", h.RunOrchestrator)
	mux.HandleFunc("GET /stop", h.StopOrchestrator)
	mux.HandleFunc("GET /full-stop", h.FullStop)
	mux.HandleFunc("GET /running", h.ListRunning)

	// Lab
	mux.HandleFunc("POST /lab/add", h.LabAdd)
	mux.HandleFunc("POST /lab/stop/{id}", h.LabStop)

	// API
	mux.HandleFunc("GET /api/status", h.Status)
	mux.HandleFunc("GET /api/workflows", h.ListWorkflows)
	mux.HandleFunc("GET /api/schedules", h.ListSchedules)

	// Ops
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.Handle("GET /metrics", promhttp.Handler())
}

// Routes возвращает mux со всеми маршрутами, обёрнутый в middleware chain.
//
// CORS стоит снаружи mux, чтобы preflight OPTIONS не упирался в 405.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
		Metrics(),
		CORS(h.corsOrigin),
	)

	return chain(mux)
}
