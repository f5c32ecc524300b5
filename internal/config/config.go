// Package config загружает конфигурацию robosched-server.
//
// Порядок: значения по умолчанию → YAML файл (если указан) → переменные окружения.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig — конфигурация не прошла проверку.
var ErrInvalidConfig = errors.New("invalid config")

// Источники каталога workflows.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config — конфигурация сервера.
type Config struct {
	// HTTP control plane
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`

	// AutoRun — запускать оркестратор при старте сервера.
	AutoRun bool `yaml:"auto_run"`

	Workflows WorkflowsConfig `yaml:"workflows"`

	// DatabaseURL — Postgres DSN (нужен при workflows.source=postgres).
	DatabaseURL string `yaml:"database_url"`

	// RabbitMQURL — пусто: без событий и команд через RabbitMQ.
	RabbitMQURL string `yaml:"rabbitmq_url"`

	// TracingOutput — "", "stdout" или путь к файлу.
	TracingOutput string `yaml:"tracing_output"`

	// RepeatInterval — пауза между проходами repeat-задач.
	RepeatInterval time.Duration `yaml:"repeat_interval"`

	// ShutdownTimeout — сколько ждать завершения запросов и задач при остановке.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Schedules — cron-триггеры, добавляющие задачи.
	Schedules []ScheduleConfig `yaml:"schedules"`
}

// WorkflowsConfig — источник каталога workflows.
type WorkflowsConfig struct {
	Source string `yaml:"source"` // file | postgres
	Path   string `yaml:"path"`
}

// ScheduleConfig — один cron-триггер.
type ScheduleConfig struct {
	Name     string `yaml:"name"`
	Cron     string `yaml:"cron"`
	Workflow string `yaml:"workflow"`
	Repeat   bool   `yaml:"repeat"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() Config {
	return Config{
		Host:       "0.0.0.0",
		Port:       8000,
		CORSOrigin: "http://localhost:5173",
		AutoRun:    true,
		Workflows: WorkflowsConfig{
			Source: SourceFile,
			Path:   "workflows.yaml",
		},
		RepeatInterval:  time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load читает конфигурацию. path может быть пустым.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnv переопределяет поля из переменных окружения.
func (c *Config) applyEnv() error {
	if v := os.Getenv("HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT=%q", ErrInvalidConfig, v)
		}
		c.Port = port
	}
	if v, ok := os.LookupEnv("CORS_ORIGIN"); ok {
		c.CORSOrigin = v
	}
	if v := os.Getenv("AUTO_RUN"); v != "" {
		autoRun, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: AUTO_RUN=%q", ErrInvalidConfig, v)
		}
		c.AutoRun = autoRun
	}
	if v := os.Getenv("WORKFLOWS_SOURCE"); v != "" {
		c.Workflows.Source = strings.ToLower(v)
	}
	if v := os.Getenv("WORKFLOWS_PATH"); v != "" {
		c.Workflows.Path = v
	}
	if v := os.Getenv("DB_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		c.RabbitMQURL = v
	}
	if v := os.Getenv("TRACING_OUTPUT"); v != "" {
		c.TracingOutput = v
	}
	if v := os.Getenv("REPEAT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: REPEAT_INTERVAL=%q", ErrInvalidConfig, v)
		}
		c.RepeatInterval = d
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: SHUTDOWN_TIMEOUT=%q", ErrInvalidConfig, v)
		}
		c.ShutdownTimeout = d
	}
	return nil
}

// Validate проверяет конфигурацию.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}

	switch c.Workflows.Source {
	case SourceFile:
		if c.Workflows.Path == "" {
			return fmt.Errorf("%w: workflows.path is required for file source", ErrInvalidConfig)
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for postgres source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown workflows source %q", ErrInvalidConfig, c.Workflows.Source)
	}

	if c.RepeatInterval <= 0 {
		return fmt.Errorf("%w: repeat_interval must be positive", ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown_timeout must be positive", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Schedules))
	for i, s := range c.Schedules {
		if s.Name == "" || s.Cron == "" || s.Workflow == "" {
			return fmt.Errorf("%w: schedules[%d]: name, cron and workflow are required", ErrInvalidConfig, i)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate schedule name %q", ErrInvalidConfig, s.Name)
		}
		seen[s.Name] = true
	}

	return nil
}

// Addr возвращает адрес для http.Server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
