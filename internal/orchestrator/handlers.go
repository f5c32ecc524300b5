package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/shaiso/robosched/internal/mq"
)

// HandleCommand обрабатывает команду из очереди commands.lab.
//
// Отклонённые и неизвестные команды логируются и подтверждаются (nil),
// чтобы не зацикливать их в очереди. Ошибка разбора payload возвращается:
// consumer сделает nack, и сообщение уйдёт в DLQ.
func (o *Orchestrator) HandleCommand(_ context.Context, delivery *mq.Delivery) error {
	msg := &delivery.Message
	logger := o.logger.With("message_id", msg.ID, "type", msg.Type)

	switch msg.Type {
	case mq.MessageTypeLabAdd:
		payload, err := mq.ParsePayload[mq.LabAddPayload](msg)
		if err != nil {
			logger.Error("failed to parse lab.add payload", "error", err)
			return fmt.Errorf("parse lab.add: %w", err)
		}
		if payload.Name == "" {
			logger.Warn("lab.add without workflow name, skipping")
			return nil
		}

		tasks, err := o.AddTask(payload.Name, payload.RepeatOrDefault())
		if errors.Is(err, ErrOrchestratorStopped) {
			logger.Info("lab.add rejected", "workflow", payload.Name, "reason", err)
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("lab.add handled", "workflow", payload.Name, "tasks", len(tasks))

	case mq.MessageTypeOrchestratorRun:
		o.Run()

	case mq.MessageTypeOrchestratorStop:
		o.Stop()

	default:
		logger.Warn("unknown command type, skipping")
	}

	return nil
}
