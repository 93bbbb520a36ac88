package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const defaultWebhookLogLimit = 50

type WebhookInput struct {
	Name           string                `json:"name"`
	URL            string                `json:"url"`
	Events         []entity.WebhookEvent `json:"events"`
	RetryCount     int                   `json:"retry_count"`
	TimeoutSeconds int                   `json:"timeout_seconds"`
}

type UpdateWebhookInput struct {
	ID             string                 `json:"-"`
	Name           *string                `json:"name"`
	URL            *string                `json:"url"`
	Events         *[]entity.WebhookEvent `json:"events"`
	Active         *bool                  `json:"is_active"`
	RetryCount     *int                   `json:"retry_count"`
	TimeoutSeconds *int                   `json:"timeout_seconds"`
}

// WebhookUseCase gerencia os webhooks do usuário; todo acesso é restrito ao dono.
type WebhookUseCase struct {
	Webhooks entity.WebhookRepositoryInterface
	Sender   WebhookSender
}

func NewWebhookUseCase(webhooks entity.WebhookRepositoryInterface, sender WebhookSender) *WebhookUseCase {
	return &WebhookUseCase{Webhooks: webhooks, Sender: sender}
}

func (uc *WebhookUseCase) Create(ctx context.Context, input WebhookInput) (*entity.Webhook, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	w, err := entity.NewWebhook(principal.UserID, input.Name, input.URL, input.Events, input.RetryCount, input.TimeoutSeconds)
	if err != nil {
		return nil, translate(err, "webhook")
	}
	if err := uc.Webhooks.Create(ctx, w); err != nil {
		return nil, translate(err, "webhook")
	}
	return w, nil
}

func (uc *WebhookUseCase) List(ctx context.Context) ([]*entity.Webhook, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	hooks, err := uc.Webhooks.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, translate(err, "webhooks")
	}
	return hooks, nil
}

func (uc *WebhookUseCase) Get(ctx context.Context, id string) (*entity.Webhook, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return uc.owned(ctx, principal, id)
}

func (uc *WebhookUseCase) Update(ctx context.Context, input UpdateWebhookInput) (*entity.Webhook, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	w, err := uc.owned(ctx, principal, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		w.Name = strings.TrimSpace(*input.Name)
	}
	if input.URL != nil {
		w.URL = strings.TrimSpace(*input.URL)
	}
	if input.Events != nil {
		w.Events = *input.Events
	}
	if input.Active != nil {
		w.Active = *input.Active
	}
	if input.RetryCount != nil && *input.RetryCount > 0 {
		w.RetryCount = *input.RetryCount
	}
	if input.TimeoutSeconds != nil && *input.TimeoutSeconds > 0 {
		w.TimeoutSeconds = *input.TimeoutSeconds
	}
	if err := w.Validate(); err != nil {
		return nil, translate(err, "webhook")
	}
	w.UpdatedAt = entity.Now()

	if err := uc.Webhooks.Update(ctx, w); err != nil {
		return nil, translate(err, "webhook")
	}
	return w, nil
}

func (uc *WebhookUseCase) Delete(ctx context.Context, id string) error {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}
	if _, err := uc.owned(ctx, principal, id); err != nil {
		return err
	}
	return translate(uc.Webhooks.Delete(ctx, id), "webhook")
}

// Test envia um evento de teste síncrono e devolve o log da tentativa.
func (uc *WebhookUseCase) Test(ctx context.Context, id string) (*entity.WebhookLog, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	w, err := uc.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	event, err := entity.NewEvent(entity.EventLeadCreated, principal.UserID, map[string]any{
		"test":    true,
		"message": "This is a test webhook from CRM",
		"lead": map[string]any{
			"id":     "test-lead-id",
			"title":  "Test Lead",
			"status": entity.StatusNew,
			"value":  1000.0,
		},
	})
	if err != nil {
		return nil, &TechnicalError{Code: "SERIALIZATION_ERROR", Message: "failed to build test event", Err: err}
	}

	log, err := uc.Sender.Send(ctx, w, event)
	if err != nil {
		return nil, &TechnicalError{Code: "WEBHOOK_ERROR", Message: "failed to record webhook delivery", Err: err}
	}
	return log, nil
}

func (uc *WebhookUseCase) Logs(ctx context.Context, id string, limit int) ([]*entity.WebhookLog, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := uc.owned(ctx, principal, id); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = defaultWebhookLogLimit
	}
	logs, err := uc.Webhooks.ListLogs(ctx, id, limit)
	if err != nil {
		return nil, translate(err, "webhook logs")
	}
	return logs, nil
}

// owned responde NOT_FOUND também para webhook de outro usuário.
func (uc *WebhookUseCase) owned(ctx context.Context, principal Principal, id string) (*entity.Webhook, error) {
	w, err := uc.Webhooks.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "webhook")
	}
	if w.UserID != principal.UserID {
		return nil, NewDomainError(CodeNotFound, "webhook not found")
	}
	return w, nil
}
