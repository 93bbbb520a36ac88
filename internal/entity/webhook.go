package entity

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

type WebhookEvent string

const (
	EventLeadCreated       WebhookEvent = "lead.created"
	EventLeadUpdated       WebhookEvent = "lead.updated"
	EventLeadStatusChanged WebhookEvent = "lead.status_changed"
	EventLeadDeleted       WebhookEvent = "lead.deleted"
	EventUserRegistered    WebhookEvent = "user.registered"
)

func (e WebhookEvent) Valid() bool {
	switch e {
	case EventLeadCreated, EventLeadUpdated, EventLeadStatusChanged, EventLeadDeleted, EventUserRegistered:
		return true
	}
	return false
}

const (
	DefaultWebhookRetryCount = 3
	DefaultWebhookTimeout    = 30
)

var (
	ErrWebhookURLInvalid   = errors.New("url must be an absolute http(s) url")
	ErrWebhookNoEvents     = errors.New("at least one event is required")
	ErrWebhookEventUnknown = errors.New("unknown webhook event")
)

// Webhook é um endpoint externo assinado pelos eventos do CRM.
// RetryCount é guardado mas a entrega faz uma única tentativa.
type Webhook struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	Name           string         `json:"name"`
	URL            string         `json:"url"`
	Events         []WebhookEvent `json:"events"`
	Secret         string         `json:"secret"`
	Active         bool           `json:"is_active"`
	RetryCount     int            `json:"retry_count"`
	TimeoutSeconds int            `json:"timeout_seconds"`
	TotalTriggers  int            `json:"total_triggers"`
	FailedTriggers int            `json:"failed_triggers"`
	LastTriggered  *time.Time     `json:"last_triggered,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func NewWebhook(userID, name, rawURL string, events []WebhookEvent, retryCount, timeoutSeconds int) (*Webhook, error) {
	if retryCount <= 0 {
		retryCount = DefaultWebhookRetryCount
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = DefaultWebhookTimeout
	}
	now := Now()
	w := &Webhook{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           strings.TrimSpace(name),
		URL:            strings.TrimSpace(rawURL),
		Events:         events,
		Secret:         uuid.New().String(),
		Active:         true,
		RetryCount:     retryCount,
		TimeoutSeconds: timeoutSeconds,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Webhook) Validate() error {
	u, err := url.Parse(w.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrWebhookURLInvalid
	}
	if len(w.Events) == 0 {
		return ErrWebhookNoEvents
	}
	for _, e := range w.Events {
		if !e.Valid() {
			return ErrWebhookEventUnknown
		}
	}
	return nil
}

func (w *Webhook) Subscribes(event WebhookEvent) bool {
	for _, e := range w.Events {
		if e == event {
			return true
		}
	}
	return false
}

type WebhookLog struct {
	ID             string       `json:"id"`
	WebhookID      string       `json:"webhook_id"`
	Event          WebhookEvent `json:"event"`
	Payload        string       `json:"payload"`
	ResponseStatus int          `json:"response_status,omitempty"`
	ResponseBody   string       `json:"response_body,omitempty"`
	ErrorMessage   string       `json:"error_message,omitempty"`
	Success        bool         `json:"success"`
	TriggeredAt    time.Time    `json:"triggered_at"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
}

type WebhookRepositoryInterface interface {
	Create(ctx context.Context, w *Webhook) error
	FindByID(ctx context.Context, id string) (*Webhook, error)
	ListByUser(ctx context.Context, userID string) ([]*Webhook, error)
	// ListActiveForEvent devolve os webhooks ativos do usuário inscritos no evento.
	ListActiveForEvent(ctx context.Context, userID string, event WebhookEvent) ([]*Webhook, error)
	Update(ctx context.Context, w *Webhook) error
	Delete(ctx context.Context, id string) error
	RecordTrigger(ctx context.Context, id string, success bool, at time.Time) error
	AppendLog(ctx context.Context, log *WebhookLog) error
	ListLogs(ctx context.Context, webhookID string, limit int) ([]*WebhookLog, error)
}
