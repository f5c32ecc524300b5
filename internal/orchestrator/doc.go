// Package orchestrator управляет выполняемыми задачами лаборатории.
//
// Orchestrator отвечает за:
//   - Состояние running/stopped (запуск и остановка приёма задач)
//   - Приём задач по имени workflow (все совпадения реестра)
//   - Таблицу выполняемых задач и её снимки
//   - Запуск каждой задачи в своей горутине через Runner
//   - Отмену задач при остановке и ожидание их завершения при Shutdown
//   - Обработку команд из RabbitMQ (lab.add, orchestrator.run/stop)
//
// Пока оркестратор остановлен, задачи не принимаются, а таблица пуста.
package orchestrator
