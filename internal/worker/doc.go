// Package worker исполняет workflows, запущенные оркестратором.
//
// # Обзор
//
// Оркестратор не интерпретирует определения workflows: он только принимает
// задачи, отслеживает их и сигнализирует об отмене. Worker — слой
// исполнения, который:
//
//   - Выполняет шаги workflow последовательно через реестр executor'ов
//   - Повторяет шаг согласно его RetryPolicy (fixed/exponential backoff)
//   - Применяет таймаут шага из StepDef.TimeoutSec
//   - Перезапускает workflow, если у task выставлен Repeat
//   - Трейсит проходы и шаги через OpenTelemetry
//
// # Ключевые компоненты
//
// ## Worker
//
// Создаётся через New(cfg Config). Метод Run блокируется до завершения
// прохода (Repeat=false) или до отмены контекста (Repeat=true).
//
//	w := worker.New(worker.Config{Logger: logger})
//	err := w.Run(ctx, task, func(err error) { ... })
//
// ## Executor
//
// Интерфейс для выполнения конкретного типа шага:
//
//	type Executor interface {
//	    Execute(ctx context.Context, step *domain.StepDef) (*ExecutionResult, error)
//	}
//
// Реализации: HTTPExecutor (http), DelayExecutor (delay).
//
// # Отмена
//
// Отмена best-effort: executor'ы проверяют ctx.Done(), и после отмены
// Run возвращает nil без записи прохода.
package worker
