package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /diagnostics", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orchestrator":true}`))
	})
	mux.HandleFunc("GET /run", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orchestrator":true}`))
	})
	mux.HandleFunc("GET /stop", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orchestrator":false}`))
	})
	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"running":true,"tasks":2,"workflows":3}`))
	})
	mux.HandleFunc("GET /running", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"a1","workflow":{"id":1,"name":"pick","steps":2},"repeat":true,"state":"running","iterations":4,"created_at":"2026-01-01T00:00:00Z"}]`))
	})
	mux.HandleFunc("POST /lab/add", func(w http.ResponseWriter, r *http.Request) {
		var req addTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":"BAD_REQUEST","message":"invalid request body"}}`))
			return
		}
		if req.Name == "stopped" {
			w.Write([]byte("null\n"))
			return
		}
		json.NewEncoder(w).Encode(req)
	})
	mux.HandleFunc("POST /lab/stop/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "a1" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"task not found"}}`))
			return
		}
		w.Write([]byte(`{"id":"a1","workflow":{"id":1,"name":"pick","steps":2},"state":"stopped"}`))
	})
	mux.HandleFunc("GET /api/workflows", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"pick","steps":2,"source":"a","destination":"b"}]`))
	})

	mux.HandleFunc("GET /api/schedules", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"morning","workflow":"pick","cron":"0 8 * * *","next":"2026-01-01T08:00:00Z"}]`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Orchestrator(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	running, err := c.Diagnostics()
	if err != nil || !running {
		t.Fatalf("Diagnostics() = %v, %v", running, err)
	}

	running, err = c.Stop()
	if err != nil || running {
		t.Fatalf("Stop() = %v, %v", running, err)
	}

	status, err := c.Status()
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if !status.Running || status.Tasks != 2 || status.Workflows != 3 {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestClient_Tasks(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	tasks, err := c.Running()
	if err != nil {
		t.Fatalf("Running() error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Workflow.Name != "pick" || tasks[0].Iterations != 4 {
		t.Errorf("unexpected tasks: %+v", tasks)
	}

	if err := c.AddTask("pick"); err != nil {
		t.Errorf("AddTask() error: %v", err)
	}

	task, err := c.StopTask("a1")
	if err != nil {
		t.Fatalf("StopTask() error: %v", err)
	}
	if task.State != "stopped" {
		t.Errorf("expected stopped, got %q", task.State)
	}
}

func TestClient_Rejected(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	err := c.AddTask("stopped")
	if !errors.Is(err, ErrRejected) {
		t.Errorf("expected ErrRejected, got %v", err)
	}
}

func TestClient_APIError(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	_, err := c.StopTask("missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Diagnostics()
	if err == nil || !strings.Contains(err.Error(), "HTTP 502") {
		t.Errorf("unexpected error: %v", err)
	}
}

func runCmd(t *testing.T, newCmd func(func() *Client, func() *Output) *cobra.Command, jsonMode bool, args ...string) (string, string, error) {
	t.Helper()

	srv := newTestServer(t)
	var stdout, stderr bytes.Buffer

	cmd := newCmd(
		func() *Client { return NewClient(srv.URL) },
		func() *Output { return NewOutputTo(jsonMode, &stdout, &stderr) },
	)
	cmd.SetArgs(args)
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTaskListCmd_Table(t *testing.T) {
	stdout, _, err := runCmd(t, NewTaskCmd, false, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, separator and one row, got %q", stdout)
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[2], "pick") {
		t.Errorf("unexpected table:\n%s", stdout)
	}
}

func TestTaskListCmd_JSON(t *testing.T) {
	stdout, _, err := runCmd(t, NewTaskCmd, true, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var tasks []TaskResponse
	if err := json.Unmarshal([]byte(stdout), &tasks); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "a1" {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestTaskAddCmd(t *testing.T) {
	_, stderr, err := runCmd(t, NewTaskCmd, false, "add", "pick")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, `"pick"`) {
		t.Errorf("unexpected message: %q", stderr)
	}

	_, _, err = runCmd(t, NewTaskCmd, false, "add")
	if err == nil {
		t.Error("expected args error")
	}
}

func TestOrchestratorRunCmd(t *testing.T) {
	stdout, stderr, err := runCmd(t, NewOrchestratorCmd, true, "run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "Orchestrator running") {
		t.Errorf("unexpected message: %q", stderr)
	}

	var state map[string]bool
	if err := json.Unmarshal([]byte(stdout), &state); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if !state["orchestrator"] {
		t.Errorf("expected orchestrator=true, got %v", state)
	}
}

func TestWorkflowListCmd(t *testing.T) {
	stdout, _, err := runCmd(t, NewWorkflowCmd, false, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "DESTINATION") || !strings.Contains(stdout, "pick") {
		t.Errorf("unexpected table:\n%s", stdout)
	}
}

func TestScheduleListCmd(t *testing.T) {
	stdout, _, err := runCmd(t, NewScheduleCmd, false, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "morning") || !strings.Contains(stdout, "0 8 * * *") {
		t.Errorf("unexpected table:\n%s", stdout)
	}
}

func TestTaskStopCmd_Record(t *testing.T) {
	stdout, stderr, err := runCmd(t, NewTaskCmd, false, "stop", "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "Task stopped: a1") {
		t.Errorf("unexpected message: %q", stderr)
	}
	if !strings.Contains(stdout, "State:") || !strings.Contains(stdout, "stopped") {
		t.Errorf("unexpected record:\n%s", stdout)
	}
	// пустой last_error выводится прочерком
	if !strings.Contains(stdout, "Last error: -") {
		t.Errorf("expected dash for empty field:\n%s", stdout)
	}
}

func TestOutput_ListEmpty(t *testing.T) {
	var stdout, stderr bytes.Buffer
	out := NewOutputTo(false, &stdout, &stderr)

	out.List([]string{"ID"}, nil, []string{}, "No tasks")

	if stdout.Len() != 0 {
		t.Errorf("expected no table, got %q", stdout.String())
	}
	if strings.TrimSpace(stderr.String()) != "No tasks" {
		t.Errorf("unexpected message: %q", stderr.String())
	}
}

func TestOutput_ListEmptyJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	out := NewOutputTo(true, &stdout, &stderr)

	out.List([]string{"ID"}, nil, []string{}, "No tasks")

	if strings.TrimSpace(stdout.String()) != "[]" {
		t.Errorf("expected [], got %q", stdout.String())
	}
}
