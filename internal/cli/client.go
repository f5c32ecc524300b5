package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrRejected — сервер ответил null: оркестратор остановлен.
var ErrRejected = errors.New("rejected: orchestrator is not running")

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// WorkflowResponse — workflow из API.
type WorkflowResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
	Steps       int    `json:"steps"`
}

// TaskResponse — задача из /running.
type TaskResponse struct {
	ID         string           `json:"id"`
	Workflow   WorkflowResponse `json:"workflow"`
	Repeat     bool             `json:"repeat"`
	State      string           `json:"state"`
	Iterations int              `json:"iterations"`
	LastError  string           `json:"last_error,omitempty"`
	CreatedAt  string           `json:"created_at"`
	StartedAt  string           `json:"started_at,omitempty"`
	StoppedAt  string           `json:"stopped_at,omitempty"`
}

// StatusResponse — сводка /api/status.
type StatusResponse struct {
	Running   bool   `json:"running"`
	Tasks     int    `json:"tasks"`
	Workflows int    `json:"workflows"`
	StartedAt string `json:"started_at,omitempty"`
}

// ScheduleResponse — cron-триггер из /api/schedules.
type ScheduleResponse struct {
	Name     string `json:"name"`
	Workflow string `json:"workflow"`
	Cron     string `json:"cron"`
	Next     string `json:"next,omitempty"`
	Prev     string `json:"prev,omitempty"`
}

type stateResponse struct {
	Orchestrator bool `json:"orchestrator"`
}

type fullStopResponse struct {
	FullStop bool `json:"fullStop"`
}

type addTaskRequest struct {
	Name string `json:"name"`
}

// --- API response wrappers ---

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для robosched control plane.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Orchestrator ---

// Diagnostics возвращает true, если оркестратор запущен.
func (c *Client) Diagnostics() (bool, error) {
	var resp stateResponse
	err := c.get("/diagnostics", &resp)
	return resp.Orchestrator, err
}

// Run запускает оркестратор.
func (c *Client) Run() (bool, error) {
	var resp stateResponse
	err := c.get("/run", &resp)
	return resp.Orchestrator, err
}

// Stop останавливает оркестратор.
func (c *Client) Stop() (bool, error) {
	var resp stateResponse
	err := c.get("/stop", &resp)
	return resp.Orchestrator, err
}

// FullStop останавливает оркестратор и сервер.
func (c *Client) FullStop() (bool, error) {
	var resp fullStopResponse
	err := c.get("/full-stop", &resp)
	return resp.FullStop, err
}

// Status возвращает сводку состояния.
func (c *Client) Status() (*StatusResponse, error) {
	var status StatusResponse
	err := c.get("/api/status", &status)
	return &status, err
}

// --- Tasks ---

// Running возвращает снимок таблицы задач.
func (c *Client) Running() ([]TaskResponse, error) {
	var tasks []TaskResponse
	err := c.get("/running", &tasks)
	return tasks, err
}

// AddTask добавляет задачи для workflows с именем name.
func (c *Client) AddTask(name string) error {
	var echo addTaskRequest
	return c.post("/lab/add", addTaskRequest{Name: name}, &echo)
}

// StopTask снимает задачу по ID.
func (c *Client) StopTask(id string) (*TaskResponse, error) {
	var task TaskResponse
	err := c.post("/lab/stop/"+id, nil, &task)
	return &task, err
}

// Workflows возвращает каталог workflows.
func (c *Client) Workflows() ([]WorkflowResponse, error) {
	var workflows []WorkflowResponse
	err := c.get("/api/workflows", &workflows)
	return workflows, err
}

// Schedules возвращает cron-триггеры сервера.
func (c *Client) Schedules() ([]ScheduleResponse, error) {
	var schedules []ScheduleResponse
	err := c.get("/api/schedules", &schedules)
	return schedules, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doJSON(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body, result any) error {
	return c.doJSON(http.MethodPost, path, body, result)
}

// doJSON выполняет запрос и декодирует тело ответа в result.
// Тело null означает отказ остановленного оркестратора.
func (c *Client) doJSON(method, path string, body, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if string(bytes.TrimSpace(raw)) == "null" {
		return ErrRejected
	}

	if result == nil {
		return nil
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
