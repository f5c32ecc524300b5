package registry

import "errors"

// Ошибки реестра.
var (
	// ErrWorkflowNotFound — workflow с таким именем не зарегистрирован.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrInvalidWorkflow — определение workflow не прошло валидацию.
	ErrInvalidWorkflow = errors.New("invalid workflow")
)
