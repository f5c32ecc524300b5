package orchestrator

import "errors"

// Ошибки оркестратора.
var (
	// ErrOrchestratorStopped — оркестратор остановлен, операция отклонена.
	ErrOrchestratorStopped = errors.New("orchestrator is not running")

	// ErrTaskNotFound — task нет в таблице выполняемых задач.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskExists — task с таким ID уже в таблице.
	ErrTaskExists = errors.New("task already exists")
)
