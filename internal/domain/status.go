package domain

// TaskState — состояние task в таблице выполняемых задач.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → STOPPED
//	        ↘ STOPPED (остановлен до старта)
type TaskState string

const (
	// TaskStatePending — task принят, горутина выполнения ещё не стартовала.
	TaskStatePending TaskState = "PENDING"

	// TaskStateRunning — workflow task выполняется.
	TaskStateRunning TaskState = "RUNNING"

	// TaskStateStopped — выполнение завершено или остановлено.
	TaskStateStopped TaskState = "STOPPED"
)

// IsTerminal возвращает true, если состояние финальное.
func (s TaskState) IsTerminal() bool {
	return s == TaskStateStopped
}

// String возвращает строковое представление TaskState.
func (s TaskState) String() string {
	return string(s)
}
