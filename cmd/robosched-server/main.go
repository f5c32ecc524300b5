// robosched-server — control plane оркестратора робототехнических workflows.
//
// Сервер:
//   - Загружает каталог workflows из YAML файла или Postgres
//   - Управляет таблицей выполняемых задач через HTTP control plane
//   - Принимает команды и публикует события через RabbitMQ (если доступен)
//   - Добавляет задачи по cron-расписанию
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shaiso/robosched/internal/api"
	"github.com/shaiso/robosched/internal/config"
	"github.com/shaiso/robosched/internal/domain"
	"github.com/shaiso/robosched/internal/mq"
	"github.com/shaiso/robosched/internal/orchestrator"
	"github.com/shaiso/robosched/internal/registry"
	"github.com/shaiso/robosched/internal/repo"
	"github.com/shaiso/robosched/internal/scheduler"
	"github.com/shaiso/robosched/internal/telemetry"
	"github.com/shaiso/robosched/internal/worker"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	flag.Parse()

	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting robosched-server", "version", version)

	if err := run(*configPath, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("robosched-server stopped")
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// graceful shutdown: сигнал или /full-stop
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.SetupTracing("robosched-server", version, cfg.TracingOutput)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	workflows, err := loadWorkflows(ctx, cfg, logger)
	if err != nil {
		return err
	}
	catalog := registry.New(workflows...)
	logger.Info("workflow catalog loaded", "source", cfg.Workflows.Source, "workflows", catalog.Len())

	runner := worker.New(worker.Config{
		RepeatInterval: cfg.RepeatInterval,
		Logger:         logger,
	})

	orchCfg := orchestrator.Config{
		Registry: catalog,
		Runner:   runner,
		Logger:   logger,
	}

	// RabbitMQ
	var mqConn *mq.Connection
	if cfg.RabbitMQURL != "" {
		mqConn, err = mq.NewConnection(mq.ConnectionConfig{
			URL:    cfg.RabbitMQURL,
			Name:   "robosched-server",
			Logger: logger,
		})
		if err != nil {
			logger.Warn("RabbitMQ not available, running without events and commands", "error", err)
			mqConn = nil
		} else {
			defer mqConn.Close()
			logger.Info("RabbitMQ connected")

			if err := mq.SetupTopology(ctx, mqConn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}
			orchCfg.Publisher = mq.NewPublisher(mqConn, logger)
		}
	}

	orch := orchestrator.New(orchCfg)
	if cfg.AutoRun {
		orch.Run()
	}

	// Команды из очереди; consumer завершается по отмене ctx
	consumerDone := make(chan struct{})
	if mqConn != nil {
		consumer := mq.NewConsumer(mqConn, mq.ConsumerConfig{
			Queue:   mq.QueueCommandsLab,
			Handler: orch.HandleCommand,
			Logger:  logger,
		})
		go func() {
			defer close(consumerDone)
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("consumer stopped", "error", err)
			}
		}()
	} else {
		close(consumerDone)
	}

	// Расписание
	sched, err := scheduler.New(scheduler.Config{
		Adder:    orch,
		Triggers: triggersFromConfig(cfg.Schedules),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	sched.Start()

	handler := api.NewHandler(api.Config{
		Orchestrator: orch,
		Workflows:    catalog,
		Schedules:    sched,
		Shutdown:     cancel,
		CORSOrigin:   cfg.CORSOrigin,
		Logger:       logger,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Ожидаем сигнал завершения
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			logger.Error("http server error", "error", err)
		}
		cancel()
	}
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}

	<-sched.Stop().Done()

	if err := orch.Shutdown(shutdownCtx); err != nil {
		logger.Warn("orchestrator shutdown incomplete", "error", err)
	}

	<-consumerDone

	return nil
}

// loadWorkflows читает каталог из источника, заданного в конфигурации.
func loadWorkflows(ctx context.Context, cfg config.Config, logger *slog.Logger) ([]domain.Workflow, error) {
	switch cfg.Workflows.Source {
	case config.SourcePostgres:
		pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		logger.Info("database connected")

		workflowRepo := repo.NewWorkflowRepo(pool)
		if err := workflowRepo.EnsureSchema(ctx); err != nil {
			return nil, err
		}

		workflows, err := workflowRepo.ListActive(ctx)
		if err != nil {
			return nil, err
		}

		valid := workflows[:0]
		for i := range workflows {
			if err := registry.Validate(&workflows[i]); err != nil {
				logger.Warn("skipping invalid workflow", "workflow_id", workflows[i].ID, "error", err)
				continue
			}
			valid = append(valid, workflows[i])
		}
		return valid, nil

	default:
		return registry.LoadFile(cfg.Workflows.Path)
	}
}

func triggersFromConfig(schedules []config.ScheduleConfig) []scheduler.Trigger {
	triggers := make([]scheduler.Trigger, len(schedules))
	for i, s := range schedules {
		triggers[i] = scheduler.Trigger{
			Name:     s.Name,
			Cron:     s.Cron,
			Workflow: s.Workflow,
			Repeat:   s.Repeat,
		}
	}
	return triggers
}
