// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики
//   - tracing.go — OpenTelemetry трейсинг выполнения workflows
//
// Сервер экспортирует метрики на /metrics endpoint.
package telemetry
