// Package api содержит HTTP control plane оркестратора.
//
// Структура:
//   - handler.go         — Handler с DI (оркестратор, реестр, shutdown, logger)
//   - routes.go          — регистрация маршрутов и middleware chain
//   - middleware.go      — middleware (recovery, logging, metrics, CORS)
//   - response.go        — унифицированные JSON-ответы и обработка ошибок
//   - dto.go             — Data Transfer Objects (request/response)
//   - control_handler.go — /, /diagnostics, /run, /stop, /full-stop, /api/status
//   - lab_handler.go     — /running, /lab/add, /lab/stop/{id}, /api/workflows
//
// Команды к остановленному оркестратору не считаются ошибкой HTTP:
// ответ 200 с телом null.
package api
