package registry

import (
	"errors"
	"testing"

	"github.com/shaiso/robosched/internal/domain"
)

func testWorkflows() []domain.Workflow {
	return []domain.Workflow{
		{ID: 1, Name: "pick"},
		{ID: 2, Name: "place"},
		{ID: 3, Name: "pick"},
	}
}

// --- Registry Tests ---

func TestRegistry_Lookup(t *testing.T) {
	r := New(testWorkflows()...)

	wf, err := r.Lookup("place")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wf.ID != 2 {
		t.Errorf("expected place with id 2, got %d", wf.ID)
	}

	// Первое совпадение
	wf, err = r.Lookup("pick")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wf.ID != 1 {
		t.Errorf("expected first pick (id 1), got %d", wf.ID)
	}

	_, err = r.Lookup("missing")
	if !errors.Is(err, ErrWorkflowNotFound) {
		t.Errorf("expected ErrWorkflowNotFound, got %v", err)
	}
}

func TestRegistry_Match(t *testing.T) {
	r := New(testWorkflows()...)

	found := r.Match("pick")
	if len(found) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(found))
	}
	if found[0].ID != 1 || found[1].ID != 3 {
		t.Errorf("matches should keep registration order, got %d, %d", found[0].ID, found[1].ID)
	}

	if len(r.Match("missing")) != 0 {
		t.Error("unknown name should produce no matches")
	}
}

func TestRegistry_SharedReference(t *testing.T) {
	r := New(testWorkflows()...)

	a, _ := r.Lookup("place")
	b := r.Match("place")[0]
	if a != b {
		t.Error("Lookup and Match should return the same registry entry")
	}
}

func TestRegistry_Immutable(t *testing.T) {
	workflows := testWorkflows()
	r := New(workflows...)

	// Изменение исходного слайса не влияет на реестр
	workflows[1].Name = "changed"
	if len(r.Match("place")) != 1 {
		t.Error("registry should not observe changes to the input slice")
	}

	all := r.All()
	all[0] = nil
	if r.All()[0] == nil {
		t.Error("All should return a copy")
	}
}

func TestRegistry_NamesAndLen(t *testing.T) {
	r := New(testWorkflows()...)

	if r.Len() != 3 {
		t.Errorf("expected 3 workflows, got %d", r.Len())
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "pick" || names[1] != "place" {
		t.Errorf("expected [pick place], got %v", names)
	}

	empty := New()
	if empty.Len() != 0 || len(empty.Names()) != 0 {
		t.Error("empty registry should have no workflows")
	}
}

// --- Loader Tests ---

func TestLoadFile(t *testing.T) {
	workflows, err := LoadFile("testdata/workflows.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(workflows) != 3 {
		t.Fatalf("expected 3 workflows, got %d", len(workflows))
	}

	// ID назначается по порядку, если не указан
	if workflows[0].ID != 1 || workflows[1].ID != 2 {
		t.Errorf("expected ids 1 and 2, got %d and %d", workflows[0].ID, workflows[1].ID)
	}
	if workflows[2].ID != 7 {
		t.Errorf("explicit id should be kept, got %d", workflows[2].ID)
	}

	pick := workflows[0]
	if pick.StepCount() != 2 {
		t.Errorf("expected 2 steps, got %d", pick.StepCount())
	}
	if pick.Source().ID != "approach" || pick.Destination().ID != "grab" {
		t.Errorf("unexpected source/destination: %s/%s", pick.Source().ID, pick.Destination().ID)
	}
	if pick.Definition.Steps[0].Config["duration_ms"] != 10 {
		t.Errorf("expected duration_ms=10, got %v", pick.Definition.Steps[0].Config["duration_ms"])
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile("testdata/nope.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse_JSON(t *testing.T) {
	data := []byte(`{"workflows": [{"name": "scan", "definition": {"steps": [{"id": "s1", "type": "delay"}]}}]}`)

	workflows, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(workflows) != 1 || workflows[0].Name != "scan" {
		t.Errorf("unexpected workflows: %+v", workflows)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no name", `workflows: [{definition: {steps: [{id: a, type: delay}]}}]`},
		{"no steps", `workflows: [{name: pick}]`},
		{"step without id", `workflows: [{name: pick, definition: {steps: [{type: delay}]}}]`},
		{"step without type", `workflows: [{name: pick, definition: {steps: [{id: a}]}}]`},
		{"duplicate step", `workflows: [{name: pick, definition: {steps: [{id: a, type: delay}, {id: a, type: delay}]}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, ErrInvalidWorkflow) {
				t.Errorf("expected ErrInvalidWorkflow, got %v", err)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("workflows: [unclosed"))
	if err == nil {
		t.Error("expected parse error")
	}
	if errors.Is(err, ErrInvalidWorkflow) {
		t.Error("syntax errors should not be reported as validation errors")
	}
}

func TestValidate_SingleStep(t *testing.T) {
	wf := domain.Workflow{Name: "dwell", Definition: domain.Definition{
		Steps: []domain.StepDef{{ID: "wait", Type: "delay"}},
	}}

	if err := Validate(&wf); err != nil {
		t.Fatalf("single-step workflow should be valid: %v", err)
	}
	if wf.Source() == nil || wf.Source() != wf.Destination() {
		t.Errorf("single step should be both source and destination: %v, %v", wf.Source(), wf.Destination())
	}

	wf.Definition.Steps = nil
	if err := Validate(&wf); !errors.Is(err, ErrInvalidWorkflow) {
		t.Errorf("expected ErrInvalidWorkflow for empty steps, got %v", err)
	}
}
