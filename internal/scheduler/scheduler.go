package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shaiso/robosched/internal/domain"
	"github.com/shaiso/robosched/internal/orchestrator"
	"github.com/shaiso/robosched/internal/telemetry"
)

// TaskAdder — приёмник срабатываний (оркестратор).
type TaskAdder interface {
	AddTask(name string, repeat bool) ([]domain.Task, error)
}

// Trigger — cron-правило добавления задачи.
type Trigger struct {
	Name     string
	Cron     string
	Workflow string
	Repeat   bool
}

// Entry — состояние trigger для отображения.
type Entry struct {
	Name     string
	Workflow string
	Cron     string
	Next     time.Time
	Prev     time.Time
}

// Scheduler запускает triggers по расписанию.
type Scheduler struct {
	cron     *cron.Cron
	adder    TaskAdder
	triggers map[string]Trigger
	entries  map[string]cron.EntryID
	logger   *slog.Logger
}

// Config — конфигурация Scheduler.
type Config struct {
	// Adder — кому отдавать срабатывания (обязательно).
	Adder TaskAdder

	Triggers []Trigger

	// Location — часовой пояс расписаний (default: time.Local).
	Location *time.Location

	Logger *slog.Logger
}

// New проверяет triggers и регистрирует их. Запуск — Start.
func New(cfg Config) (*Scheduler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = telemetry.WithComponent(logger, "scheduler")

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	cl := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		adder:    cfg.Adder,
		triggers: make(map[string]Trigger, len(cfg.Triggers)),
		entries:  make(map[string]cron.EntryID, len(cfg.Triggers)),
		logger:   logger,
	}

	for _, t := range cfg.Triggers {
		if err := s.register(t); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Scheduler) register(t Trigger) error {
	if t.Name == "" || t.Workflow == "" {
		return fmt.Errorf("%w: name and workflow are required", ErrInvalidTrigger)
	}
	if _, exists := s.triggers[t.Name]; exists {
		return fmt.Errorf("%w: duplicate name %q", ErrInvalidTrigger, t.Name)
	}
	if err := ValidateCronExpr(t.Cron); err != nil {
		return fmt.Errorf("trigger %s: %w", t.Name, err)
	}

	id, err := s.cron.AddFunc(t.Cron, func() { s.fire(t) })
	if err != nil {
		return fmt.Errorf("trigger %s: %w", t.Name, err)
	}

	s.triggers[t.Name] = t
	s.entries[t.Name] = id
	return nil
}

// Start запускает cron в фоне.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "triggers", len(s.triggers))
}

// Stop останавливает cron. Возвращённый ctx закрывается, когда
// выполняющиеся срабатывания завершились.
func (s *Scheduler) Stop() context.Context {
	ctx := s.cron.Stop()
	s.logger.Info("scheduler stopped")
	return ctx
}

// Fire вручную выполняет trigger.
func (s *Scheduler) Fire(name string) error {
	t, ok := s.triggers[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTriggerNotFound, name)
	}
	s.fire(t)
	return nil
}

// Entries возвращает triggers с временем следующего срабатывания, по имени.
func (s *Scheduler) Entries() []Entry {
	result := make([]Entry, 0, len(s.triggers))
	for name, t := range s.triggers {
		e := s.cron.Entry(s.entries[name])
		result = append(result, Entry{
			Name:     t.Name,
			Workflow: t.Workflow,
			Cron:     t.Cron,
			Next:     e.Next,
			Prev:     e.Prev,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (s *Scheduler) fire(t Trigger) {
	logger := s.logger.With("trigger", t.Name, "workflow", t.Workflow)

	tasks, err := s.adder.AddTask(t.Workflow, t.Repeat)
	switch {
	case errors.Is(err, orchestrator.ErrOrchestratorStopped):
		logger.Info("trigger skipped: orchestrator is not running")
	case err != nil:
		logger.Error("trigger failed", "error", err)
	case len(tasks) == 0:
		logger.Warn("trigger matched no workflows")
	default:
		logger.Info("trigger fired", "tasks", len(tasks))
	}
}
