package registry

import (
	"fmt"
	"sort"

	"github.com/shaiso/robosched/internal/domain"
)

// Registry — неизменяемый каталог workflows.
//
// Registry создаётся один раз и не меняется, поэтому безопасен для
// конкурентного чтения без блокировок. Возвращаемые *domain.Workflow
// указывают на записи реестра и не должны изменяться вызывающим кодом.
type Registry struct {
	workflows []*domain.Workflow
}

// New создаёт реестр из списка workflows.
// Порядок сохраняется; дубликаты имён допускаются.
func New(workflows ...domain.Workflow) *Registry {
	r := &Registry{workflows: make([]*domain.Workflow, len(workflows))}
	for i := range workflows {
		wf := workflows[i]
		r.workflows[i] = &wf
	}
	return r
}

// Lookup возвращает первый workflow с указанным именем.
// Возвращает ErrWorkflowNotFound, если совпадений нет.
func (r *Registry) Lookup(name string) (*domain.Workflow, error) {
	for _, wf := range r.workflows {
		if wf.Name == name {
			return wf, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, name)
}

// Match возвращает все workflows с указанным именем в порядке регистрации.
// Пустой результат означает, что имя неизвестно.
func (r *Registry) Match(name string) []*domain.Workflow {
	var found []*domain.Workflow
	for _, wf := range r.workflows {
		if wf.Name == name {
			found = append(found, wf)
		}
	}
	return found
}

// All возвращает все зарегистрированные workflows.
func (r *Registry) All() []*domain.Workflow {
	result := make([]*domain.Workflow, len(r.workflows))
	copy(result, r.workflows)
	return result
}

// Names возвращает отсортированный список уникальных имён.
func (r *Registry) Names() []string {
	seen := make(map[string]struct{}, len(r.workflows))
	names := make([]string, 0, len(r.workflows))
	for _, wf := range r.workflows {
		if _, ok := seen[wf.Name]; ok {
			continue
		}
		seen[wf.Name] = struct{}{}
		names = append(names, wf.Name)
	}
	sort.Strings(names)
	return names
}

// Len возвращает количество зарегистрированных workflows.
func (r *Registry) Len() int {
	return len(r.workflows)
}
