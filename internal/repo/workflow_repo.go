package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/robosched/internal/domain"
)

// Schema — таблица каталога workflows.
const Schema = `
CREATE TABLE IF NOT EXISTS workflows (
	id         SERIAL PRIMARY KEY,
	name       TEXT        NOT NULL,
	definition JSONB       NOT NULL DEFAULT '{}'::jsonb,
	is_active  BOOLEAN     NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS workflows_name_idx ON workflows (name);
`

// WorkflowRepo читает каталог workflows из Postgres.
//
// Имена не уникальны: несколько активных строк с одним именем
// дают несколько задач на один AddTask.
type WorkflowRepo struct {
	pool *pgxpool.Pool
}

// NewWorkflowRepo создаёт новый WorkflowRepo.
func NewWorkflowRepo(pool *pgxpool.Pool) *WorkflowRepo {
	return &WorkflowRepo{pool: pool}
}

// EnsureSchema создаёт таблицу, если её нет.
func (r *WorkflowRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// ListActive возвращает активные workflows в порядке id.
func (r *WorkflowRepo) ListActive(ctx context.Context) ([]domain.Workflow, error) {
	query := `
		SELECT id, name, definition
		FROM workflows
		WHERE is_active
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []domain.Workflow
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workflows: %w", err)
	}

	return workflows, nil
}

// GetByID возвращает workflow по id (в том числе неактивный).
func (r *WorkflowRepo) GetByID(ctx context.Context, id int) (*domain.Workflow, error) {
	query := `
		SELECT id, name, definition
		FROM workflows
		WHERE id = $1
	`
	wf, err := scanWorkflow(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wf, nil
}

// Create сохраняет workflow и заполняет его ID.
func (r *WorkflowRepo) Create(ctx context.Context, wf *domain.Workflow) error {
	definition, err := json.Marshal(wf.Definition)
	if err != nil {
		return fmt.Errorf("marshal definition: %w", err)
	}

	query := `
		INSERT INTO workflows (name, definition)
		VALUES ($1, $2)
		RETURNING id
	`
	if err := r.pool.QueryRow(ctx, query, wf.Name, string(definition)).Scan(&wf.ID); err != nil {
		return fmt.Errorf("insert workflow: %w", err)
	}
	return nil
}

func scanWorkflow(row pgx.Row) (domain.Workflow, error) {
	var (
		wf         domain.Workflow
		definition []byte
	)
	if err := row.Scan(&wf.ID, &wf.Name, &definition); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wf, err
		}
		return wf, fmt.Errorf("scan workflow: %w", err)
	}

	def, err := decodeDefinition(definition)
	if err != nil {
		return wf, fmt.Errorf("workflow %d: %w", wf.ID, err)
	}
	wf.Definition = def
	return wf, nil
}

// decodeDefinition разбирает JSONB definition; пустое значение — пустой definition.
func decodeDefinition(data []byte) (domain.Definition, error) {
	var def domain.Definition
	if len(data) == 0 {
		return def, nil
	}
	if err := json.Unmarshal(data, &def); err != nil {
		return def, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	return def, nil
}
