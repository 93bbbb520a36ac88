package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

// EventDispatcher entrega o evento aos webhooks inscritos.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event *entity.Event) (int, error)
}

type Worker struct {
	Channel    *amqp.Channel
	Dispatcher EventDispatcher
}

func NewWorker(ch *amqp.Channel, dispatcher EventDispatcher) *Worker {
	return &Worker{
		Channel:    ch,
		Dispatcher: dispatcher,
	}
}

// Start consome a fila até o contexto ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info("worker aguardando eventos", "queue", queueName)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal do RabbitMQ fechado")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	log := logger.FromContext(ctx)

	var event entity.Event
	if err := json.Unmarshal(d.Body, &event); err != nil || event.Name == "" {
		log.Error("mensagem inválida na fila", "error", err, "message_id", d.MessageId)
		// Mensagem podre: vai para a DLQ sem requeue para não travar a fila.
		d.Nack(false, false)
		return
	}

	n, err := w.Dispatcher.Dispatch(ctx, &event)
	if err != nil {
		// erro de banco ao listar webhooks: tenta de novo mais tarde
		log.Error("falha ao despachar evento", "event", event.Name, "event_id", event.ID, "error", err)
		d.Nack(false, !d.Redelivered)
		return
	}

	log.Debug("evento despachado", "event", event.Name, "event_id", event.ID, "webhooks", n)
	d.Ack(false)
}
