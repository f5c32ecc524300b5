package scheduler

import "errors"

var (
	// ErrInvalidCron — cron-выражение не разбирается.
	ErrInvalidCron = errors.New("invalid cron expression")

	// ErrInvalidTrigger — у trigger не хватает полей или имя повторяется.
	ErrInvalidTrigger = errors.New("invalid trigger")

	// ErrTriggerNotFound — trigger с таким именем не зарегистрирован.
	ErrTriggerNotFound = errors.New("trigger not found")
)
