package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/shaiso/robosched/internal/domain"
	"github.com/shaiso/robosched/internal/telemetry"
)

// Default configuration values.
const (
	defaultRepeatInterval   = time.Second
	defaultRepeatBackoff    = time.Second
	defaultMaxRepeatBackoff = 30 * time.Second
)

// ReportFunc получает результат каждого завершённого прохода workflow.
// err == nil — проход успешен.
type ReportFunc func(err error)

// Worker исполняет workflows задач.
//
// Worker не хранит состояния между вызовами Run и безопасен
// для конкурентного использования: каждая task исполняется
// в своей горутине.
type Worker struct {
	registry *Registry

	// Repeat configuration
	repeatInterval   time.Duration
	repeatBackoff    time.Duration
	maxRepeatBackoff time.Duration

	logger *slog.Logger
}

// Config — конфигурация Worker.
type Config struct {
	// Executor registry (опционально; если nil — используется NewRegistry())
	Registry *Registry

	// RepeatInterval — пауза между успешными проходами repeat-задачи (default: 1s).
	RepeatInterval time.Duration

	// RepeatBackoff — начальная пауза после неудачного прохода (default: 1s).
	// Удваивается с каждой неудачей подряд до MaxRepeatBackoff.
	RepeatBackoff time.Duration

	// MaxRepeatBackoff — максимальная пауза после неудачи (default: 30s).
	MaxRepeatBackoff time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	registry := cfg.Registry
	if registry == nil {
		registry = NewRegistry()
	}

	repeatInterval := cfg.RepeatInterval
	if repeatInterval <= 0 {
		repeatInterval = defaultRepeatInterval
	}

	repeatBackoff := cfg.RepeatBackoff
	if repeatBackoff <= 0 {
		repeatBackoff = defaultRepeatBackoff
	}

	maxRepeatBackoff := cfg.MaxRepeatBackoff
	if maxRepeatBackoff <= 0 {
		maxRepeatBackoff = defaultMaxRepeatBackoff
	}
	if maxRepeatBackoff < repeatBackoff {
		maxRepeatBackoff = repeatBackoff
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		registry:         registry,
		repeatInterval:   repeatInterval,
		repeatBackoff:    repeatBackoff,
		maxRepeatBackoff: maxRepeatBackoff,
		logger:           telemetry.WithComponent(logger, "worker"),
	}
}

// Run исполняет workflow задачи.
//
// Repeat=false — один проход; возвращается его ошибка.
// Repeat=true — проходы повторяются до отмены ctx; неудачный проход
// логируется и перезапускается после backoff.
//
// Отмена ctx прерывает текущий шаг; в этом случае Run возвращает nil,
// а прерванный проход не передаётся в report.
func (w *Worker) Run(ctx context.Context, task domain.Task, report ReportFunc) error {
	if task.Workflow == nil {
		return ErrNoWorkflow
	}

	logger := telemetry.WithWorkflow(telemetry.WithTaskID(w.logger, task.ID.String()), task.Workflow.Name)
	failures := 0

	for pass := 1; ; pass++ {
		err := w.runPass(ctx, task, pass)
		if ctx.Err() != nil {
			logger.Debug("workflow cancelled", "pass", pass)
			return nil
		}

		telemetry.ObservePass(task.Workflow.Name, err)
		if report != nil {
			report(err)
		}

		if err != nil {
			logger.Warn("workflow pass failed", "pass", pass, "error", err)
		} else {
			logger.Debug("workflow pass succeeded", "pass", pass)
		}

		if !task.Repeat {
			return err
		}

		delay := w.repeatInterval
		if err != nil {
			failures++
			delay = calculateBackoff(failures, &domain.RetryPolicy{
				Backoff:        "exponential",
				InitialDelayMs: int(w.repeatBackoff.Milliseconds()),
				MaxDelayMs:     int(w.maxRepeatBackoff.Milliseconds()),
			})
		} else {
			failures = 0
		}

		if !sleepCtx(ctx, delay) {
			logger.Debug("workflow cancelled between passes", "pass", pass)
			return nil
		}
	}
}

// runPass выполняет все шаги workflow один раз.
func (w *Worker) runPass(ctx context.Context, task domain.Task, pass int) (err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "workflow.pass",
		trace.WithAttributes(
			attribute.String("task.id", task.ID.String()),
			attribute.String("workflow.name", task.Workflow.Name),
			attribute.Int("workflow.pass", pass),
		),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	for i := range task.Workflow.Definition.Steps {
		step := &task.Workflow.Definition.Steps[i]
		if err := w.executeStep(ctx, step); err != nil {
			return fmt.Errorf("step %s: %w", step.ID, err)
		}
	}

	return nil
}
