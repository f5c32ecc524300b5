package repo

import "errors"

// Ошибки репозитория.
var (
	// ErrNotFound — запись не найдена в БД.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDefinition — definition в БД не разбирается.
	ErrInvalidDefinition = errors.New("invalid workflow definition")
)
