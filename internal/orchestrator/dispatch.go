package orchestrator

import (
	"context"

	"github.com/shaiso/robosched/internal/domain"
	"github.com/shaiso/robosched/internal/mq"
	"github.com/shaiso/robosched/internal/telemetry"
)

// dispatch исполняет task в своей горутине.
//
// Task остаётся в таблице и после завершения выполнения (STOPPED):
// удаляют его только Stop и StopTask.
func (o *Orchestrator) dispatch(ctx context.Context, task domain.Task) {
	defer o.wg.Done()

	logger := telemetry.WithWorkflow(telemetry.WithTaskID(o.logger, task.ID.String()), task.WorkflowName())

	if _, ok := o.table.Update(task.ID, func(t *domain.Task) {
		if t.State == domain.TaskStatePending {
			t.MarkRunning()
		}
	}); !ok {
		logger.Debug("task removed before start")
		return
	}

	logger.Debug("task started", "repeat", task.Repeat)

	err := o.runner.Run(ctx, task, func(passErr error) {
		o.table.Update(task.ID, func(t *domain.Task) {
			t.RecordPass(passErr)
		})
	})

	if ctx.Err() != nil {
		// Снят через Stop/StopTask/Shutdown — запись уже удалена.
		logger.Debug("task cancelled")
		return
	}

	final, ok := o.table.Update(task.ID, func(t *domain.Task) {
		if err != nil && t.LastError == "" {
			t.LastError = err.Error()
		}
		t.MarkStopped()
	})
	if !ok {
		return
	}

	if err != nil {
		logger.Warn("task finished with error", "iterations", final.Iterations, "error", err)
	} else {
		logger.Info("task finished", "iterations", final.Iterations)
	}
	o.publish(mq.EventTaskFinished, taskEvent(final))
}
