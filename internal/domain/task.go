package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task — единица планирования: один экземпляр workflow.
//
// Task создаётся Orchestrator'ом при добавлении workflow и живёт в таблице
// выполняемых задач до явной остановки. Repeat означает, что workflow
// перезапускается после каждого прохода, пока task не остановят.
type Task struct {
	// ID — уникальный идентификатор task.
	ID uuid.UUID `json:"id"`

	// Workflow — workflow, который выполняет task (общая ссылка на запись реестра).
	Workflow *Workflow `json:"workflow"`

	// Repeat — перезапускать workflow после завершения прохода.
	Repeat bool `json:"repeat"`

	// State — текущее состояние task.
	State TaskState `json:"state"`

	// Iterations — количество завершённых проходов workflow.
	Iterations int `json:"iterations"`

	// LastError — ошибка последнего неудачного прохода.
	LastError string `json:"last_error,omitempty"`

	// StartedAt — время старта выполнения.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// StoppedAt — время остановки.
	StoppedAt *time.Time `json:"stopped_at,omitempty"`

	// CreatedAt — время создания task.
	CreatedAt time.Time `json:"created_at"`
}

// NewTask создаёт task в состоянии PENDING со свежим ID.
func NewTask(workflow *Workflow, repeat bool) Task {
	return Task{
		ID:        uuid.New(),
		Workflow:  workflow,
		Repeat:    repeat,
		State:     TaskStatePending,
		CreatedAt: time.Now(),
	}
}

// WorkflowName возвращает имя workflow или пустую строку.
func (t *Task) WorkflowName() string {
	if t.Workflow == nil {
		return ""
	}
	return t.Workflow.Name
}

// MarkRunning переводит task в состояние RUNNING.
func (t *Task) MarkRunning() {
	now := time.Now()
	t.State = TaskStateRunning
	t.StartedAt = &now
}

// MarkStopped переводит task в состояние STOPPED.
func (t *Task) MarkStopped() {
	if t.State == TaskStateStopped {
		return
	}
	now := time.Now()
	t.State = TaskStateStopped
	t.StoppedAt = &now
}

// RecordPass фиксирует результат одного прохода workflow.
func (t *Task) RecordPass(err error) {
	t.Iterations++
	if err != nil {
		t.LastError = err.Error()
		return
	}
	t.LastError = ""
}

// IsActive возвращает true, если task ещё не остановлен.
func (t *Task) IsActive() bool {
	return !t.State.IsTerminal()
}
