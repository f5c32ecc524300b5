package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageType — тип сообщения.
type MessageType string

// Команды.
const (
	MessageTypeLabAdd           MessageType = "lab.add"
	MessageTypeOrchestratorRun  MessageType = "orchestrator.run"
	MessageTypeOrchestratorStop MessageType = "orchestrator.stop"
)

// События.
const (
	EventOrchestratorStarted MessageType = "orchestrator.started"
	EventOrchestratorStopped MessageType = "orchestrator.stopped"
	EventTaskAdmitted        MessageType = "task.admitted"
	EventTaskStopped         MessageType = "task.stopped"
	EventTaskFinished        MessageType = "task.finished"
)

// Message — конверт сообщения.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage создаёт сообщение со свежим ID.
func NewMessage(msgType MessageType, payload any) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// LabAddPayload — payload команды lab.add.
type LabAddPayload struct {
	Name   string `json:"name"`
	Repeat *bool  `json:"repeat,omitempty"` // nil означает true, как у HTTP /lab/add
}

// RepeatOrDefault возвращает Repeat, по умолчанию true.
func (p LabAddPayload) RepeatOrDefault() bool {
	if p.Repeat == nil {
		return true
	}
	return *p.Repeat
}

// OrchestratorEventPayload — payload событий orchestrator.*.
type OrchestratorEventPayload struct {
	Running bool `json:"running"`
	Stopped int  `json:"stopped,omitempty"` // сколько задач снято при остановке
}

// TaskEventPayload — payload событий task.*.
type TaskEventPayload struct {
	TaskID     uuid.UUID `json:"task_id"`
	Workflow   string    `json:"workflow"`
	Repeat     bool      `json:"repeat"`
	State      string    `json:"state"`
	Iterations int       `json:"iterations,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,              // mandatory
			false,              // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Type:         string(msg.Type),
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishEvent публикует событие в robosched.events; routing key — тип события.
func (p *Publisher) PublishEvent(ctx context.Context, eventType MessageType, payload any) error {
	return p.Publish(ctx, ExchangeEvents, RoutingKey(eventType), NewMessage(eventType, payload))
}

// PublishCommand отправляет команду в очередь commands.lab.
func (p *Publisher) PublishCommand(ctx context.Context, cmdType MessageType, payload any) error {
	return p.Publish(ctx, ExchangeCommands, RoutingKeyLab, NewMessage(cmdType, payload))
}
