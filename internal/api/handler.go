package api

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/robosched/internal/domain"
	"github.com/shaiso/robosched/internal/orchestrator"
	"github.com/shaiso/robosched/internal/scheduler"
)

// Orchestrator — операции оркестратора, доступные через control plane.
type Orchestrator interface {
	IsRunning() bool
	Run() orchestrator.RunResult
	Stop() orchestrator.StopResult
	AddTask(name string, repeat bool) ([]domain.Task, error)
	RunningTasks() []domain.Task
	StopTask(id uuid.UUID) (domain.Task, error)
	Status() orchestrator.Status
}

// WorkflowLister — каталог workflows для /api/workflows.
type WorkflowLister interface {
	All() []*domain.Workflow
}

// ScheduleLister — cron-триггеры для /api/schedules.
type ScheduleLister interface {
	Entries() []scheduler.Entry
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	orch       Orchestrator
	workflows  WorkflowLister
	schedules  ScheduleLister
	shutdown   func()
	corsOrigin string
	logger     *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Orchestrator Orchestrator
	Workflows    WorkflowLister
	Schedules    ScheduleLister // опционально

	// Shutdown вызывается после ответа на /full-stop (опционально).
	Shutdown func()

	// CORSOrigin — единственный разрешённый origin (пусто — CORS выключен).
	CORSOrigin string

	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		orch:       cfg.Orchestrator,
		workflows:  cfg.Workflows,
		schedules:  cfg.Schedules,
		shutdown:   cfg.Shutdown,
		corsOrigin: cfg.CORSOrigin,
		logger:     logger.With("component", "api"),
	}
}
