package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// maxRequestBody — лимит тела запросов /lab.
const maxRequestBody = 1 << 20

// ListRunning возвращает снимок таблицы выполняемых задач.
// GET /running
func (h *Handler) ListRunning(w http.ResponseWriter, r *http.Request) {
	tasks := h.orch.RunningTasks()

	result := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		result[i] = TaskFromDomain(task)
	}

	OK(w, result)
}

// LabAdd добавляет repeat-задачи для всех workflows с указанным именем.
// POST /lab/add
//
// Отвечает эхом запроса; null — оркестратор остановлен.
func (h *Handler) LabAdd(w http.ResponseWriter, r *http.Request) {
	var req AddTaskRequest

	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if dec.More() {
		BadRequest(w, "invalid request body: trailing data")
		return
	}
	if err := req.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	tasks, err := h.orch.AddTask(req.Name, true)
	if HandleOrchestratorError(w, h.logger, err) {
		return
	}

	h.logger.Debug("lab add handled", "workflow", req.Name, "tasks", len(tasks))
	OK(w, req)
}

// LabStop снимает одну задачу.
// POST /lab/stop/{id}
func (h *Handler) LabStop(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid task id")
		return
	}

	task, err := h.orch.StopTask(id)
	if HandleOrchestratorError(w, h.logger, err) {
		return
	}

	OK(w, TaskFromDomain(task))
}

// ListWorkflows возвращает каталог workflows.
// GET /api/workflows
func (h *Handler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	if h.workflows == nil {
		InternalError(w, h.logger, errors.New("workflow catalog not configured"))
		return
	}

	workflows := h.workflows.All()
	result := make([]WorkflowResponse, len(workflows))
	for i, wf := range workflows {
		result[i] = WorkflowFromDomain(wf)
	}

	OK(w, result)
}

// ListSchedules возвращает cron-триггеры.
// GET /api/schedules
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	if h.schedules == nil {
		OK(w, []ScheduleResponse{})
		return
	}

	entries := h.schedules.Entries()
	result := make([]ScheduleResponse, len(entries))
	for i, e := range entries {
		result[i] = ScheduleFromEntry(e)
	}

	OK(w, result)
}
