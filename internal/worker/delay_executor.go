package worker

import (
	"context"
	"time"

	"github.com/shaiso/robosched/internal/domain"
)

// DelayExecutor — executor для шага типа "delay".
//
// Ожидает указанное время. Поддерживает отмену через context.
//
// Config:
//   - duration_sec (number): длительность задержки в секундах
//   - duration_ms (number): длительность задержки в миллисекундах
//
// Если ничего не указано — 1 секунда.
type DelayExecutor struct{}

// Execute выполняет задержку.
func (e *DelayExecutor) Execute(ctx context.Context, step *domain.StepDef) (*ExecutionResult, error) {
	duration := parseDelay(step.Config)

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return &ExecutionResult{
			Outputs: map[string]any{"duration_ms": duration.Milliseconds()},
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// parseDelay извлекает длительность из конфигурации.
func parseDelay(config map[string]any) time.Duration {
	if sec := getNumber(config, "duration_sec"); sec > 0 {
		return time.Duration(sec * float64(time.Second))
	}
	if ms := getNumber(config, "duration_ms"); ms > 0 {
		return time.Duration(ms * float64(time.Millisecond))
	}
	return time.Second
}

// getNumber извлекает число из конфигурации.
// JSON даёт float64, YAML — int.
func getNumber(config map[string]any, key string) float64 {
	val, ok := config[key]
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
