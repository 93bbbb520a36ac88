package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// EventPublisher tira a entrega de webhooks do caminho do request
// (RabbitMQ ou goroutine local).
type EventPublisher interface {
	Publish(ctx context.Context, event *entity.Event) error
}

type EmailService interface {
	SendWelcome(to, name string) error
}

type TokenIssuer interface {
	Issue(user *entity.User) (token string, expiresAt time.Time, err error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// WebhookSender faz uma única tentativa de entrega e devolve o log gravado.
type WebhookSender interface {
	Send(ctx context.Context, w *entity.Webhook, event *entity.Event) (*entity.WebhookLog, error)
}

// PipelineMetrics recebe moves e o resultado de cada ação de automação.
type PipelineMetrics interface {
	ObserveMove(from, to entity.LeadStatus)
	ObserveAction(action entity.ActionKind, ok bool)
}

type noopMetrics struct{}

func (noopMetrics) ObserveMove(entity.LeadStatus, entity.LeadStatus) {}
func (noopMetrics) ObserveAction(entity.ActionKind, bool) {}
