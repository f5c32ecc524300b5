package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shaiso/robosched/internal/domain"
)

// Executor — интерфейс для выполнения конкретного типа шага.
//
// Реализации: HTTPExecutor, DelayExecutor.
//
// step.Config содержит конфигурацию шага из определения workflow.
// ctx может содержать таймаут, установленный из StepDef.TimeoutSec.
type Executor interface {
	Execute(ctx context.Context, step *domain.StepDef) (*ExecutionResult, error)
}

// ExecutionResult — результат выполнения шага.
type ExecutionResult struct {
	// Outputs — выходные данные выполнения.
	Outputs map[string]any

	// Error — сообщение об ошибке (логическая ошибка выполнения).
	// Инфраструктурные ошибки возвращаются через error в Execute().
	Error string
}

// Registry — реестр executor'ов по типу шага. Потокобезопасен.
type Registry struct {
	mu        sync.RWMutex
	executors map[string]Executor
}

// NewRegistry создаёт реестр с зарегистрированными executor'ами по умолчанию.
//
// Регистрирует: http, delay.
func NewRegistry() *Registry {
	r := &Registry{executors: make(map[string]Executor)}
	r.Register("http", &HTTPExecutor{})
	r.Register("delay", &DelayExecutor{})
	return r
}

// Register добавляет executor для типа шага.
// Если executor с таким типом уже существует, он будет перезаписан.
func (r *Registry) Register(stepType string, executor Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[stepType] = executor
}

// Get возвращает executor для типа шага.
func (r *Registry) Get(stepType string) (Executor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	executor, ok := r.executors[stepType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStepType, stepType)
	}
	return executor, nil
}

// Types возвращает отсортированный список зарегистрированных типов.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.executors))
	for t := range r.executors {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
