// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий и команд
//   - consumer.go   — потребление команд из очереди
//
// События (exchange robosched.events, topic, routing key = тип):
//   - orchestrator.started / orchestrator.stopped
//   - task.admitted / task.stopped / task.finished
//
// Команды (exchange robosched.commands → queue commands.lab):
//   - lab.add            — добавить задачу по имени workflow
//   - orchestrator.run   — запустить оркестратор
//   - orchestrator.stop  — остановить оркестратор
//
// Сервер работает и без RabbitMQ: события просто не публикуются.
package mq
