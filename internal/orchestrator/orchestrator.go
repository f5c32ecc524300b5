package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/robosched/internal/domain"
	"github.com/shaiso/robosched/internal/mq"
	"github.com/shaiso/robosched/internal/telemetry"
	"github.com/shaiso/robosched/internal/worker"
)

const defaultPublishTimeout = 2 * time.Second

// Registry — источник workflows по имени.
type Registry interface {
	Match(name string) []*domain.Workflow
	Len() int
}

// Runner исполняет workflow задачи до завершения или отмены ctx.
type Runner interface {
	Run(ctx context.Context, task domain.Task, report worker.ReportFunc) error
}

// EventPublisher публикует события жизненного цикла.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType mq.MessageType, payload any) error
}

// RunResult — результат Run.
type RunResult struct {
	Running        bool
	AlreadyRunning bool
}

// StopResult — результат Stop.
type StopResult struct {
	WasRunning bool
	Stopped    int // сколько задач снято
}

// Status — сводка состояния оркестратора.
type Status struct {
	Running   bool
	Tasks     int
	Workflows int
	StartedAt *time.Time
}

// Orchestrator управляет выполняемыми задачами.
//
// Все методы безопасны для конкурентного вызова. Оркестратор создаётся
// остановленным.
type Orchestrator struct {
	registry  Registry
	runner    Runner
	publisher EventPublisher

	table *taskTable

	// running читается без блокировки (IsRunning, /diagnostics);
	// изменяется только под stateMu.Lock.
	running atomic.Bool

	// stateMu: AddTask/StopTask держат RLock на время проверки и вставки,
	// Run/Stop — Lock на время смены флага и очистки таблицы.
	stateMu   sync.RWMutex
	startedAt time.Time
	closed    bool

	// Lifecycle
	rootCtx        context.Context
	rootCancel     context.CancelFunc
	wg             sync.WaitGroup
	shutdownOnce   sync.Once
	publishTimeout time.Duration

	logger *slog.Logger
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Registry — реестр workflows (обязательно).
	Registry Registry

	// Runner — исполнитель задач (опционально; если nil — worker.New с defaults).
	Runner Runner

	// Publisher — публикация событий (опционально; nil — события не публикуются).
	Publisher EventPublisher

	// PublishTimeout — таймаут публикации одного события (default: 2s).
	PublishTimeout time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт остановленный Orchestrator.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	runner := cfg.Runner
	if runner == nil {
		runner = worker.New(worker.Config{Logger: logger})
	}

	publishTimeout := cfg.PublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = defaultPublishTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	telemetry.SetOrchestratorRunning(false)

	return &Orchestrator{
		registry:       cfg.Registry,
		runner:         runner,
		publisher:      cfg.Publisher,
		table:          newTaskTable(),
		rootCtx:        ctx,
		rootCancel:     cancel,
		publishTimeout: publishTimeout,
		logger:         telemetry.WithComponent(logger, "orchestrator"),
	}
}

// IsRunning возвращает текущее состояние.
func (o *Orchestrator) IsRunning() bool {
	return o.running.Load()
}

// Run переводит оркестратор в состояние running. Идемпотентен.
func (o *Orchestrator) Run() RunResult {
	o.stateMu.Lock()
	if o.closed {
		o.stateMu.Unlock()
		o.logger.Warn("orchestrator is shut down, run ignored")
		return RunResult{Running: false}
	}
	if o.running.Load() {
		o.stateMu.Unlock()
		o.logger.Info("orchestrator already running")
		return RunResult{Running: true, AlreadyRunning: true}
	}
	o.running.Store(true)
	o.startedAt = time.Now()
	o.stateMu.Unlock()

	telemetry.SetOrchestratorRunning(true)
	o.logger.Info("orchestrator started")
	o.publish(mq.EventOrchestratorStarted, mq.OrchestratorEventPayload{Running: true})

	return RunResult{Running: true}
}

// Stop переводит оркестратор в состояние stopped.
//
// Все задачи помечаются STOPPED, удаляются из таблицы и отменяются.
// Завершения горутин Stop не ждёт (см. Shutdown).
func (o *Orchestrator) Stop() StopResult {
	o.stateMu.Lock()
	if !o.running.Load() {
		o.stateMu.Unlock()
		o.logger.Info("orchestrator already stopped")
		return StopResult{}
	}
	o.running.Store(false)
	o.startedAt = time.Time{}
	drained := o.table.Drain()
	o.stateMu.Unlock()

	for _, e := range drained {
		if e.cancel != nil {
			e.cancel()
		}
		o.publish(mq.EventTaskStopped, taskEvent(e.task))
	}

	telemetry.SetOrchestratorRunning(false)
	telemetry.TasksActive.Set(0)

	o.logger.Info("orchestrator stopped", "stopped_tasks", len(drained))
	o.publish(mq.EventOrchestratorStopped, mq.OrchestratorEventPayload{
		Running: false,
		Stopped: len(drained),
	})

	return StopResult{WasRunning: true, Stopped: len(drained)}
}

// AddTask создаёт по задаче на каждый workflow реестра с именем name.
//
// Отклоняется с ErrOrchestratorStopped, если оркестратор остановлен.
// Неизвестное имя — пустой результат без ошибки.
func (o *Orchestrator) AddTask(name string, repeat bool) ([]domain.Task, error) {
	created, err := o.admit(name, repeat)
	if err != nil {
		return created, err
	}

	for _, task := range created {
		o.publish(mq.EventTaskAdmitted, taskEvent(task))
	}

	return created, nil
}

// admit проверяет состояние и вставляет задачи атомарно относительно Stop.
func (o *Orchestrator) admit(name string, repeat bool) ([]domain.Task, error) {
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()

	if !o.running.Load() {
		telemetry.TasksRejected.Inc()
		o.logger.Warn("orchestrator is not running", "operation", "add_task", "workflow", name)
		return nil, ErrOrchestratorStopped
	}

	matches := o.registry.Match(name)
	created := make([]domain.Task, 0, len(matches))
	if len(matches) == 0 {
		o.logger.Debug("no workflow matches name", "workflow", name)
		return created, nil
	}

	for _, wf := range matches {
		task := domain.NewTask(wf, repeat)

		ctx, cancel := context.WithCancel(o.rootCtx)
		if err := o.table.Insert(task, cancel); err != nil {
			cancel()
			return created, fmt.Errorf("insert task: %w", err)
		}

		o.wg.Add(1)
		go o.dispatch(ctx, task)

		telemetry.TasksAdmitted.WithLabelValues(wf.Name).Inc()
		o.logger.Info("task admitted",
			"task_id", task.ID,
			"workflow", wf.Name,
			"workflow_id", wf.ID,
			"repeat", repeat,
		)
		created = append(created, task)
	}

	telemetry.TasksActive.Set(float64(o.table.Len()))
	return created, nil
}

// RunningTasks возвращает снимок таблицы в порядке создания задач.
// Когда оркестратор остановлен, результат пуст.
func (o *Orchestrator) RunningTasks() []domain.Task {
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()

	if !o.running.Load() {
		o.logger.Debug("orchestrator is not running", "operation", "running_tasks")
		return []domain.Task{}
	}

	return o.table.Snapshot()
}

// StopTask снимает одну задачу: удаляет из таблицы и отменяет.
func (o *Orchestrator) StopTask(id uuid.UUID) (domain.Task, error) {
	o.stateMu.RLock()
	if !o.running.Load() {
		o.stateMu.RUnlock()
		o.logger.Warn("orchestrator is not running", "operation", "stop_task", "task_id", id)
		return domain.Task{}, ErrOrchestratorStopped
	}
	task, cancel, ok := o.table.Remove(id)
	o.stateMu.RUnlock()

	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	if cancel != nil {
		cancel()
	}
	telemetry.TasksActive.Set(float64(o.table.Len()))

	o.logger.Info("task stopped", "task_id", id, "workflow", task.WorkflowName())
	o.publish(mq.EventTaskStopped, taskEvent(task))

	return task, nil
}

// Status возвращает сводку состояния.
func (o *Orchestrator) Status() Status {
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()

	status := Status{
		Running:   o.running.Load(),
		Tasks:     o.table.Len(),
		Workflows: o.registry.Len(),
	}
	if !o.startedAt.IsZero() {
		startedAt := o.startedAt
		status.StartedAt = &startedAt
	}
	return status
}

// Shutdown останавливает оркестратор (один раз) и ждёт завершения
// горутин задач или истечения ctx. После Shutdown Run игнорируется.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.shutdownOnce.Do(func() {
		o.logger.Info("shutting down orchestrator...")

		o.stateMu.Lock()
		o.closed = true
		o.stateMu.Unlock()

		o.Stop()
		o.rootCancel()
	})

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		o.logger.Info("orchestrator shut down")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for tasks: %w", ctx.Err())
	}
}

// publish отправляет событие, если настроен publisher. Ошибки только логируются.
func (o *Orchestrator) publish(eventType mq.MessageType, payload any) {
	if o.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.publishTimeout)
	defer cancel()

	if err := o.publisher.PublishEvent(ctx, eventType, payload); err != nil {
		o.logger.Warn("failed to publish event", "type", eventType, "error", err)
	}
}

func taskEvent(task domain.Task) mq.TaskEventPayload {
	return mq.TaskEventPayload{
		TaskID:     task.ID,
		Workflow:   task.WorkflowName(),
		Repeat:     task.Repeat,
		State:      task.State.String(),
		Iterations: task.Iterations,
		Error:      task.LastError,
	}
}
