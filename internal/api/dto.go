package api

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/robosched/internal/domain"
	"github.com/shaiso/robosched/internal/orchestrator"
	"github.com/shaiso/robosched/internal/scheduler"
)

// Control DTOs

// RootResponse — ответ на GET /.
type RootResponse struct {
	Msg Msg `json:"msg"`
}

// Msg — тело health ping.
type Msg struct {
	Data  string `json:"data"`
	Error int    `json:"error"`
}

// OrchestratorStateResponse — ответ /diagnostics, /run, /stop.
type OrchestratorStateResponse struct {
	Orchestrator bool `json:"orchestrator"`
}

// FullStopResponse — ответ /full-stop.
type FullStopResponse struct {
	FullStop bool `json:"fullStop"`
}

// StatusResponse — ответ /api/status.
type StatusResponse struct {
	Running   bool       `json:"running"`
	Tasks     int        `json:"tasks"`
	Workflows int        `json:"workflows"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// StatusFromOrchestrator конвертирует orchestrator.Status в StatusResponse.
func StatusFromOrchestrator(s orchestrator.Status) StatusResponse {
	return StatusResponse{
		Running:   s.Running,
		Tasks:     s.Tasks,
		Workflows: s.Workflows,
		StartedAt: s.StartedAt,
	}
}

// Lab DTOs

// AddTaskRequest — тело POST /lab/add.
type AddTaskRequest struct {
	Name string `json:"name"`
}

// Validate проверяет запрос.
func (r *AddTaskRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// WorkflowResponse — представление workflow.
type WorkflowResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
	Steps       int    `json:"steps"`
}

// WorkflowFromDomain конвертирует domain.Workflow в WorkflowResponse.
func WorkflowFromDomain(wf *domain.Workflow) WorkflowResponse {
	if wf == nil {
		return WorkflowResponse{}
	}

	resp := WorkflowResponse{
		ID:          wf.ID,
		Name:        wf.Name,
		Description: wf.Definition.Description,
		Steps:       wf.StepCount(),
	}
	if src := wf.Source(); src != nil {
		resp.Source = src.ID
	}
	if dst := wf.Destination(); dst != nil {
		resp.Destination = dst.ID
	}
	return resp
}

// ScheduleResponse — cron-триггер.
type ScheduleResponse struct {
	Name     string     `json:"name"`
	Workflow string     `json:"workflow"`
	Cron     string     `json:"cron"`
	Next     *time.Time `json:"next,omitempty"`
	Prev     *time.Time `json:"prev,omitempty"`
}

// ScheduleFromEntry конвертирует scheduler.Entry в ScheduleResponse.
func ScheduleFromEntry(e scheduler.Entry) ScheduleResponse {
	resp := ScheduleResponse{Name: e.Name, Workflow: e.Workflow, Cron: e.Cron}
	if !e.Next.IsZero() {
		resp.Next = &e.Next
	}
	if !e.Prev.IsZero() {
		resp.Prev = &e.Prev
	}
	return resp
}

// TaskResponse — элемент ответа /running.
type TaskResponse struct {
	ID         uuid.UUID        `json:"id"`
	Workflow   WorkflowResponse `json:"workflow"`
	Repeat     bool             `json:"repeat"`
	State      domain.TaskState `json:"state"`
	Iterations int              `json:"iterations"`
	LastError  string           `json:"last_error,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	StartedAt  *time.Time       `json:"started_at,omitempty"`
	StoppedAt  *time.Time       `json:"stopped_at,omitempty"`
}

// TaskFromDomain конвертирует domain.Task в TaskResponse.
func TaskFromDomain(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:         t.ID,
		Workflow:   WorkflowFromDomain(t.Workflow),
		Repeat:     t.Repeat,
		State:      t.State,
		Iterations: t.Iterations,
		LastError:  t.LastError,
		CreatedAt:  t.CreatedAt,
		StartedAt:  t.StartedAt,
		StoppedAt:  t.StoppedAt,
	}
}
