package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики robosched. Регистрируются в prometheus.DefaultRegisterer.
var (
	// OrchestratorRunning — 1, если оркестратор принимает задачи.
	OrchestratorRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "robosched_orchestrator_running",
		Help: "Whether the orchestrator is accepting tasks (1) or stopped (0)",
	})

	// TasksActive — количество задач в таблице выполняемых задач.
	TasksActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "robosched_tasks_active",
		Help: "Number of tasks in the running task table",
	})

	// TasksAdmitted — принятые задачи по workflow.
	TasksAdmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "robosched_tasks_admitted_total",
		Help: "Total tasks admitted by the orchestrator",
	}, []string{"workflow"})

	// TasksRejected — запросы, отклонённые из-за остановленного оркестратора.
	TasksRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "robosched_tasks_rejected_total",
		Help: "Total requests rejected because the orchestrator is stopped",
	})

	// WorkflowPasses — завершённые проходы workflow по статусу.
	WorkflowPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "robosched_workflow_passes_total",
		Help: "Total workflow passes executed, by outcome",
	}, []string{"workflow", "status"})

	// HTTPRequests — запросы к control plane.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "robosched_http_requests_total",
		Help: "Total HTTP requests handled by the control plane",
	}, []string{"method", "status"})
)

// SetOrchestratorRunning обновляет gauge состояния оркестратора.
func SetOrchestratorRunning(running bool) {
	if running {
		OrchestratorRunning.Set(1)
		return
	}
	OrchestratorRunning.Set(0)
}

// ObservePass учитывает проход workflow.
func ObservePass(workflow string, err error) {
	status := "succeeded"
	if err != nil {
		status = "failed"
	}
	WorkflowPasses.WithLabelValues(workflow, status).Inc()
}

// ObserveHTTPRequest учитывает HTTP запрос.
func ObserveHTTPRequest(method string, status int) {
	HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
