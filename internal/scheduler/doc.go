// Package scheduler добавляет задачи оркестратора по cron-расписанию.
//
// Каждый Trigger связывает cron-выражение с именем workflow: при
// срабатывании вызывается AddTask(workflow, repeat). Если оркестратор
// остановлен, срабатывание пропускается (логируется), повторов нет.
package scheduler
