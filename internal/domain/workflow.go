package domain

// Workflow — именованная автоматизация (робот-процедура), которую
// оркестратор умеет планировать.
//
// Workflow неизменяем после регистрации в реестре. Имя не обязано быть
// уникальным: при поиске по имени возвращаются все совпадения.
// Оркестратор не интерпретирует Definition — его исполняет worker.
type Workflow struct {
	// ID — идентификатор workflow в каталоге.
	ID int `json:"id" yaml:"id"`

	// Name — имя workflow (например, "pick", "place").
	Name string `json:"name" yaml:"name"`

	// Definition — описание того, что делает workflow.
	Definition Definition `json:"definition" yaml:"definition"`
}

// Definition — содержимое workflow: упорядоченный список шагов.
type Definition struct {
	// Description — описание назначения workflow.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Steps — шаги, выполняемые последовательно.
	Steps []StepDef `json:"steps" yaml:"steps"`
}

// StepDef — определение шага workflow.
type StepDef struct {
	// ID — идентификатор шага в рамках workflow.
	ID string `json:"id" yaml:"id"`

	// Name — человекочитаемое имя шага.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Type — тип шага: "http", "delay".
	Type string `json:"type" yaml:"type"`

	// Config — конфигурация шага (зависит от типа).
	// Для http: method, url, headers, body, timeout_sec
	// Для delay: duration_sec или duration_ms
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`

	// Retry — политика повторных попыток для шага.
	Retry *RetryPolicy `json:"retry,omitempty" yaml:"retry,omitempty"`

	// TimeoutSec — таймаут выполнения шага в секундах (0 — без таймаута).
	TimeoutSec int `json:"timeout_sec,omitempty" yaml:"timeout_sec,omitempty"`
}

// RetryPolicy — политика повторных попыток.
type RetryPolicy struct {
	// MaxAttempts — максимальное количество попыток (включая первую).
	MaxAttempts int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`

	// Backoff — стратегия задержки: "fixed", "exponential".
	Backoff string `json:"backoff,omitempty" yaml:"backoff,omitempty"`

	// InitialDelayMs — начальная задержка в миллисекундах.
	InitialDelayMs int `json:"initial_delay_ms,omitempty" yaml:"initial_delay_ms,omitempty"`

	// MaxDelayMs — максимальная задержка в миллисекундах.
	MaxDelayMs int `json:"max_delay_ms,omitempty" yaml:"max_delay_ms,omitempty"`
}

// Source возвращает первый шаг workflow.
func (w *Workflow) Source() *StepDef {
	if len(w.Definition.Steps) == 0 {
		return nil
	}
	return &w.Definition.Steps[0]
}

// Destination возвращает последний шаг workflow.
func (w *Workflow) Destination() *StepDef {
	if len(w.Definition.Steps) == 0 {
		return nil
	}
	return &w.Definition.Steps[len(w.Definition.Steps)-1]
}

// StepCount возвращает количество шагов.
func (w *Workflow) StepCount() int {
	return len(w.Definition.Steps)
}
