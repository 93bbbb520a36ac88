package webhook

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

// Dispatcher entrega um evento a todos os webhooks ativos do usuário inscritos nele.
type Dispatcher struct {
	Repo   entity.WebhookRepositoryInterface
	Sender *Sender
}

func NewDispatcher(repo entity.WebhookRepositoryInterface, sender *Sender) *Dispatcher {
	return &Dispatcher{Repo: repo, Sender: sender}
}

// Dispatch devolve quantos webhooks receberam a tentativa.
func (d *Dispatcher) Dispatch(ctx context.Context, event *entity.Event) (int, error) {
	hooks, err := d.Repo.ListActiveForEvent(ctx, event.UserID, event.Name)
	if err != nil {
		return 0, fmt.Errorf("erro ao buscar webhooks: %w", err)
	}
	for _, w := range hooks {
		if _, err := d.Sender.Send(ctx, w, event); err != nil {
			logger.FromContext(ctx).Error("falha ao registrar entrega", "webhook_id", w.ID, "error", err)
		}
	}
	return len(hooks), nil
}

// AsyncPublisher implementa usecase.EventPublisher sem fila: cada evento é
// despachado numa goroutine fora do request.
type AsyncPublisher struct {
	Dispatcher *Dispatcher
	Timeout    time.Duration
	wg         sync.WaitGroup
}

func NewAsyncPublisher(d *Dispatcher) *AsyncPublisher {
	return &AsyncPublisher{Dispatcher: d, Timeout: 2 * time.Minute}
}

func (p *AsyncPublisher) Publish(ctx context.Context, event *entity.Event) error {
	log := logger.FromContext(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		bg, cancel := context.WithTimeout(logger.WithContext(context.Background(), log), p.Timeout)
		defer cancel()
		if _, err := p.Dispatcher.Dispatch(bg, event); err != nil {
			log.Error("falha ao despachar evento", "event", event.Name, "error", err)
		}
	}()
	return nil
}

// Wait bloqueia até as entregas em andamento terminarem.
func (p *AsyncPublisher) Wait() {
	p.wg.Wait()
}
