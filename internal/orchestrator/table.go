package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/shaiso/robosched/internal/domain"
)

// entry — запись таблицы: task и отмена его горутины.
type entry struct {
	task   domain.Task
	cancel context.CancelFunc
}

// taskTable — таблица выполняемых задач (id → task). Потокобезопасна.
//
// Наружу отдаются только копии domain.Task; Workflow остаётся общей
// ссылкой на запись реестра.
type taskTable struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
}

// newTaskTable создаёт пустую таблицу.
func newTaskTable() *taskTable {
	return &taskTable{entries: make(map[uuid.UUID]*entry)}
}

// Insert добавляет task. ID должен быть уникален.
func (t *taskTable) Insert(task domain.Task, cancel context.CancelFunc) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[task.ID]; exists {
		return fmt.Errorf("%w: %s", ErrTaskExists, task.ID)
	}

	t.entries[task.ID] = &entry{task: task, cancel: cancel}
	return nil
}

// Get возвращает копию task.
func (t *taskTable) Get(id uuid.UUID) (domain.Task, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[id]
	if !ok {
		return domain.Task{}, false
	}
	return e.task, true
}

// Update изменяет task под блокировкой и возвращает копию после изменения.
// false — task уже удалён из таблицы.
func (t *taskTable) Update(id uuid.UUID, fn func(task *domain.Task)) (domain.Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return domain.Task{}, false
	}
	fn(&e.task)
	return e.task, true
}

// Remove удаляет task и возвращает его вместе с функцией отмены.
// Task в возвращаемой копии помечен STOPPED.
func (t *taskTable) Remove(id uuid.UUID) (domain.Task, context.CancelFunc, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return domain.Task{}, nil, false
	}
	delete(t.entries, id)

	e.task.MarkStopped()
	return e.task, e.cancel, true
}

// Drain удаляет все задачи. Каждая возвращаемая запись помечена STOPPED.
func (t *taskTable) Drain() []entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	drained := make([]entry, 0, len(t.entries))
	for id, e := range t.entries {
		e.task.MarkStopped()
		drained = append(drained, *e)
		delete(t.entries, id)
	}

	sortEntries(drained)
	return drained
}

// Snapshot возвращает копии всех задач в порядке создания.
func (t *taskTable) Snapshot() []domain.Task {
	t.mu.RLock()
	tasks := make([]domain.Task, 0, len(t.entries))
	for _, e := range t.entries {
		tasks = append(tasks, e.task)
	}
	t.mu.RUnlock()

	sort.Slice(tasks, func(i, j int) bool {
		return taskLess(tasks[i], tasks[j])
	})
	return tasks
}

// Len возвращает количество задач.
func (t *taskTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func sortEntries(entries []entry) {
	sort.Slice(entries, func(i, j int) bool {
		return taskLess(entries[i].task, entries[j].task)
	})
}

// taskLess упорядочивает по времени создания, при равенстве — по ID.
func taskLess(a, b domain.Task) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}
