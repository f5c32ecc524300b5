// Package registry содержит каталог известных workflows.
//
// Структура:
//   - registry.go — неизменяемый Registry с поиском по имени
//   - loader.go   — загрузка каталога из YAML/JSON файла
//   - errors.go   — ошибки реестра
//
// Каталог заполняется один раз при старте процесса (из файла или из
// Postgres через repo.WorkflowRepo) и дальше только читается.
package registry
