package worker

import "errors"

// Ошибки воркера.
var (
	// ErrUnknownStepType — нет executor'а для данного типа шага.
	ErrUnknownStepType = errors.New("unknown step type")

	// ErrExecutionFailed — выполнение шага завершилось логической ошибкой.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrInvalidStepConfig — невалидная конфигурация шага.
	ErrInvalidStepConfig = errors.New("invalid step config")

	// ErrNoWorkflow — у task нет workflow.
	ErrNoWorkflow = errors.New("task has no workflow")

	// ErrHTTPRequest — HTTP-запрос завершился ошибкой.
	ErrHTTPRequest = errors.New("http request failed")
)
