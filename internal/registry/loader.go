package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/robosched/internal/domain"
)

// catalogFile — формат файла каталога.
//
//	workflows:
//	  - name: pick
//	    definition:
//	      steps:
//	        - id: approach
//	          type: http
//	          config: {url: "http://robot.local/approach"}
//
// JSON — подмножество YAML, поэтому .json файлы читаются тем же парсером.
type catalogFile struct {
	Workflows []domain.Workflow `yaml:"workflows"`
}

// LoadFile читает каталог workflows из файла.
func LoadFile(path string) ([]domain.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflows file: %w", err)
	}
	return Parse(data)
}

// Parse разбирает и валидирует каталог workflows.
// Workflows без ID получают порядковый номер (начиная с 1).
func Parse(data []byte) ([]domain.Workflow, error) {
	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse workflows: %w", err)
	}

	for i := range catalog.Workflows {
		wf := &catalog.Workflows[i]
		if wf.ID == 0 {
			wf.ID = i + 1
		}
		if err := Validate(wf); err != nil {
			return nil, err
		}
	}

	return catalog.Workflows, nil
}

// Validate проверяет определение workflow.
// Достаточно одного шага: он же source и destination.
func Validate(wf *domain.Workflow) error {
	if wf.Name == "" {
		return fmt.Errorf("%w: workflow #%d: name is required", ErrInvalidWorkflow, wf.ID)
	}
	if len(wf.Definition.Steps) == 0 {
		return fmt.Errorf("%w: %s: at least one step is required", ErrInvalidWorkflow, wf.Name)
	}

	seen := make(map[string]struct{}, len(wf.Definition.Steps))
	for i, step := range wf.Definition.Steps {
		if step.ID == "" {
			return fmt.Errorf("%w: %s: step #%d: id is required", ErrInvalidWorkflow, wf.Name, i)
		}
		if step.Type == "" {
			return fmt.Errorf("%w: %s: step %s: type is required", ErrInvalidWorkflow, wf.Name, step.ID)
		}
		if _, dup := seen[step.ID]; dup {
			return fmt.Errorf("%w: %s: duplicate step id %s", ErrInvalidWorkflow, wf.Name, step.ID)
		}
		seen[step.ID] = struct{}{}
	}

	return nil
}
