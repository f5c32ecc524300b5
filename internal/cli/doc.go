// Package cli реализует инструмент командной строки robosched.
//
// # Обзор
//
// CLI — клиентская утилита для control plane robosched.
// Работает через HTTP, не импортирует внутренние пакеты системы.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для control plane. Ответы приходят без конверта,
// тело null означает отказ остановленного оркестратора (ErrRejected),
// ошибки 4xx/5xx разбираются из ErrorResponse.
//
//	client := cli.NewClient("http://localhost:8000")
//	tasks, err := client.Running()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
//
// ## Commands
//
//   - orchestrator: status, run, stop, full-stop
//   - task: list, add, stop
//   - workflow: list
//   - schedule: list
//
// Каждая группа создаётся через фабричную функцию (NewOrchestratorCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
