package repo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shaiso/robosched/internal/domain"
)

func TestDecodeDefinition(t *testing.T) {
	def, err := decodeDefinition([]byte(`{
		"description": "pick from tray",
		"steps": [
			{"id": "approach", "type": "http", "config": {"url": "http://arm/approach"}},
			{"id": "wait", "type": "delay", "config": {"duration_ms": 200}}
		]
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if def.Description != "pick from tray" {
		t.Errorf("unexpected description %q", def.Description)
	}
	if len(def.Steps) != 2 || def.Steps[1].Type != "delay" {
		t.Errorf("unexpected steps: %+v", def.Steps)
	}
}

func TestDecodeDefinition_Empty(t *testing.T) {
	def, err := decodeDefinition(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(def.Steps) != 0 {
		t.Error("empty definition expected")
	}
}

func TestDecodeDefinition_Invalid(t *testing.T) {
	_, err := decodeDefinition([]byte(`{"steps": "many"}`))
	if !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("expected ErrInvalidDefinition, got %v", err)
	}
}

// TestWorkflowRepo_Integration требует Postgres: TEST_DB_URL=postgres://...
func TestWorkflowRepo_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DB_URL")
	if dsn == "" {
		t.Skip("TEST_DB_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	r := NewWorkflowRepo(pool)
	if err := r.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}

	wf := &domain.Workflow{
		Name: "it-pick-" + time.Now().Format("150405.000"),
		Definition: domain.Definition{
			Steps: []domain.StepDef{{ID: "s1", Type: "delay"}},
		},
	}
	if err := r.Create(ctx, wf); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() {
		pool.Exec(context.Background(), "DELETE FROM workflows WHERE id = $1", wf.ID)
	})

	got, err := r.GetByID(ctx, wf.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != wf.Name || got.StepCount() != 1 {
		t.Errorf("unexpected workflow: %+v", got)
	}

	active, err := r.ListActive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, a := range active {
		if a.ID == wf.ID {
			found = true
		}
	}
	if !found {
		t.Error("created workflow should be listed as active")
	}

	if _, err := r.GetByID(ctx, -1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
