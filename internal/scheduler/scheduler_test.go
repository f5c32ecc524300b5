package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/robosched/internal/domain"
	"github.com/shaiso/robosched/internal/orchestrator"
)

type recordingAdder struct {
	mu    sync.Mutex
	calls []string
	err   error
	fired chan struct{}
}

func (a *recordingAdder) AddTask(name string, repeat bool) ([]domain.Task, error) {
	a.mu.Lock()
	a.calls = append(a.calls, name)
	a.mu.Unlock()

	if a.fired != nil {
		select {
		case a.fired <- struct{}{}:
		default:
		}
	}
	if a.err != nil {
		return nil, a.err
	}
	return []domain.Task{domain.NewTask(&domain.Workflow{Name: name}, repeat)}, nil
}

func (a *recordingAdder) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

// --- Cron Tests ---

func TestValidateCronExpr(t *testing.T) {
	valid := []string{"0 8 * * *", "*/5 * * * *", "0 0 1 * MON", "@hourly", "@every 30s"}
	for _, expr := range valid {
		if err := ValidateCronExpr(expr); err != nil {
			t.Errorf("%q should be valid: %v", expr, err)
		}
	}

	invalid := []string{"", "* * *", "61 * * * *", "0 0 0 8 * *", "@sometimes"}
	for _, expr := range invalid {
		if err := ValidateCronExpr(expr); !errors.Is(err, ErrInvalidCron) {
			t.Errorf("%q: expected ErrInvalidCron, got %v", expr, err)
		}
	}
}

func TestNextAfter(t *testing.T) {
	from := time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC)

	next, err := NextAfter("0 8 * * *", from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	if !next.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, next)
	}
}

// --- Scheduler Tests ---

func TestNew_InvalidTriggers(t *testing.T) {
	tests := []struct {
		name     string
		triggers []Trigger
		wantErr  error
	}{
		{"bad cron", []Trigger{{Name: "a", Cron: "nope", Workflow: "pick"}}, ErrInvalidCron},
		{"no workflow", []Trigger{{Name: "a", Cron: "* * * * *"}}, ErrInvalidTrigger},
		{"duplicate", []Trigger{
			{Name: "a", Cron: "* * * * *", Workflow: "pick"},
			{Name: "a", Cron: "* * * * *", Workflow: "place"},
		}, ErrInvalidTrigger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{Adder: &recordingAdder{}, Triggers: tt.triggers})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFire(t *testing.T) {
	adder := &recordingAdder{}
	s, err := New(Config{
		Adder:    adder,
		Triggers: []Trigger{{Name: "morning", Cron: "0 8 * * *", Workflow: "pick", Repeat: true}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Fire("morning"); err != nil {
		t.Fatalf("fire: %v", err)
	}
	if adder.callCount() != 1 || adder.calls[0] != "pick" {
		t.Errorf("expected one AddTask(pick), got %v", adder.calls)
	}

	if err := s.Fire("evening"); !errors.Is(err, ErrTriggerNotFound) {
		t.Errorf("expected ErrTriggerNotFound, got %v", err)
	}
}

func TestFire_OrchestratorStopped(t *testing.T) {
	adder := &recordingAdder{err: orchestrator.ErrOrchestratorStopped}
	s, err := New(Config{
		Adder:    adder,
		Triggers: []Trigger{{Name: "t", Cron: "@hourly", Workflow: "pick"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Fire("t"); err != nil {
		t.Errorf("rejection should not be a trigger error: %v", err)
	}
	if adder.callCount() != 1 {
		t.Errorf("expected a single attempt without retry, got %d", adder.callCount())
	}
}

func TestEntries(t *testing.T) {
	s, err := New(Config{
		Adder: &recordingAdder{},
		Triggers: []Trigger{
			{Name: "b-place", Cron: "0 9 * * *", Workflow: "place"},
			{Name: "a-pick", Cron: "0 8 * * *", Workflow: "pick"},
		},
		Location: time.UTC,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Start()
	defer func() { <-s.Stop().Done() }()

	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "a-pick" || entries[1].Name != "b-place" {
		t.Errorf("entries should be sorted by name, got %s, %s", entries[0].Name, entries[1].Name)
	}
	if entries[0].Next.IsZero() {
		t.Error("started scheduler should report next run")
	}
	if entries[0].Next.UTC().Hour() != 8 {
		t.Errorf("expected next run at 08:00 UTC, got %v", entries[0].Next)
	}
}

func TestStart_FiresOnSchedule(t *testing.T) {
	adder := &recordingAdder{fired: make(chan struct{}, 1)}
	s, err := New(Config{
		Adder:    adder,
		Triggers: []Trigger{{Name: "tick", Cron: "@every 1s", Workflow: "pick"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Start()
	defer func() { <-s.Stop().Done() }()

	select {
	case <-adder.fired:
	case <-time.After(3 * time.Second):
		t.Fatal("trigger did not fire")
	}
}
