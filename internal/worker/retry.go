package worker

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/shaiso/robosched/internal/domain"
	"github.com/shaiso/robosched/internal/telemetry"
)

// executeStep выполняет шаг с retry согласно его RetryPolicy.
func (w *Worker) executeStep(ctx context.Context, step *domain.StepDef) error {
	ctx, span := telemetry.Tracer().Start(ctx, "step."+step.Type,
		trace.WithAttributes(
			attribute.String("step.id", step.ID),
			attribute.String("step.type", step.Type),
		),
	)

	err := w.executeWithRetry(ctx, step)
	telemetry.EndSpan(span, err)
	return err
}

// executeWithRetry выполняет шаг, повторяя неудачные попытки.
func (w *Worker) executeWithRetry(ctx context.Context, step *domain.StepDef) error {
	executor, err := w.registry.Get(step.Type)
	if err != nil {
		return err
	}

	maxAttempts := 1
	if step.Retry != nil && step.Retry.MaxAttempts > 0 {
		maxAttempts = step.Retry.MaxAttempts
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		lastErr = w.executeOnce(ctx, executor, step)
		if lastErr == nil {
			return nil
		}

		// Отмена — не повод для retry
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt >= maxAttempts {
			break
		}

		delay := calculateBackoff(attempt, step.Retry)

		w.logger.Debug("retrying step",
			"step_id", step.ID,
			"attempt", attempt,
			"delay", delay,
			"error", lastErr,
		)

		if !sleepCtx(ctx, delay) {
			return ctx.Err()
		}
	}

	return lastErr
}

// executeOnce выполняет одну попытку с таймаутом шага.
func (w *Worker) executeOnce(ctx context.Context, executor Executor, step *domain.StepDef) error {
	if step.TimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(step.TimeoutSec)*time.Second)
		defer cancel()
	}

	result, err := executor.Execute(ctx, step)
	if err != nil {
		return err
	}
	if result != nil && result.Error != "" {
		return fmt.Errorf("%w: %s", ErrExecutionFailed, result.Error)
	}
	return nil
}

// calculateBackoff вычисляет задержку перед повторной попыткой.
func calculateBackoff(attempt int, policy *domain.RetryPolicy) time.Duration {
	if policy == nil {
		return time.Second
	}

	initialDelay := time.Duration(policy.InitialDelayMs) * time.Millisecond
	if initialDelay <= 0 {
		initialDelay = time.Second
	}

	maxDelay := time.Duration(policy.MaxDelayMs) * time.Millisecond
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}

	var delay time.Duration
	switch policy.Backoff {
	case "exponential":
		// delay = initialDelay * 2^(attempt-1)
		delay = initialDelay
		for i := 1; i < attempt; i++ {
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
				break
			}
		}
	default:
		// "fixed" или неизвестный — используем initialDelay
		delay = initialDelay
	}

	if delay > maxDelay {
		delay = maxDelay
	}

	return delay
}

// sleepCtx ждёт d или отмены ctx. Возвращает false при отмене.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
