package api

import (
	"net/http"
)

const rootMessage = "robosched control plane"

// Root — health ping.
// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	OK(w, RootResponse{Msg: Msg{Data: rootMessage, Error: http.StatusOK}})
}

// Diagnostics возвращает состояние оркестратора.
// GET /diagnostics
func (h *Handler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	OK(w, OrchestratorStateResponse{Orchestrator: h.orch.IsRunning()})
}

// RunOrchestrator запускает оркестратор.
// GET /run
func (h *Handler) RunOrchestrator(w http.ResponseWriter, r *http.Request) {
	result := h.orch.Run()
	OK(w, OrchestratorStateResponse{Orchestrator: result.Running})
}

// StopOrchestrator останавливает оркестратор.
// GET /stop
func (h *Handler) StopOrchestrator(w http.ResponseWriter, r *http.Request) {
	h.orch.Stop()
	OK(w, OrchestratorStateResponse{Orchestrator: false})
}

// FullStop останавливает оркестратор и завершает сервер.
// GET /full-stop
//
// Shutdown вызывается после отправки ответа в отдельной горутине:
// http.Server.Shutdown ждёт завершения активных запросов, включая этот.
func (h *Handler) FullStop(w http.ResponseWriter, r *http.Request) {
	h.orch.Stop()
	OK(w, FullStopResponse{FullStop: true})

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	if h.shutdown != nil {
		h.logger.Info("full stop requested, shutting down server")
		go h.shutdown()
	}
}

// Status возвращает сводку состояния.
// GET /api/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	OK(w, StatusFromOrchestrator(h.orch.Status()))
}

// Healthz — liveness probe.
// GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		h.logger.Debug("healthz write failed", "error", err)
	}
}
