package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

const (
	SignatureHeader = "X-Webhook-Signature"
	EventHeader     = "X-Webhook-Event"
	UserAgent       = "CRM-Webhook/1.0"

	maxResponseBody = 1000
)

// DeliveryMetrics é implementado pelo middleware de métricas.
type DeliveryMetrics interface {
	ObserveWebhook(event entity.WebhookEvent, success bool)
}

type Payload struct {
	Event     entity.WebhookEvent `json:"event"`
	Data      json.RawMessage     `json:"data"`
	Timestamp time.Time           `json:"timestamp"`
	WebhookID string              `json:"webhook_id"`
}

// Sender faz uma única tentativa de entrega e grava o log e os contadores.
type Sender struct {
	Repo    entity.WebhookRepositoryInterface
	Client  *http.Client
	Metrics DeliveryMetrics
}

func NewSender(repo entity.WebhookRepositoryInterface, metrics DeliveryMetrics) *Sender {
	return &Sender{Repo: repo, Client: &http.Client{}, Metrics: metrics}
}

// Sign devolve "sha256=<hex>" do HMAC-SHA256 do corpo com o segredo do webhook.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Send devolve erro só quando não consegue gravar o resultado; falha de
// entrega vira um log com Success=false.
func (s *Sender) Send(ctx context.Context, w *entity.Webhook, event *entity.Event) (*entity.WebhookLog, error) {
	body, err := json.Marshal(Payload{
		Event:     event.Name,
		Data:      event.Data,
		Timestamp: entity.Now(),
		WebhookID: w.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar payload do webhook: %w", err)
	}

	record := &entity.WebhookLog{
		ID:          uuid.New().String(),
		WebhookID:   w.ID,
		Event:       event.Name,
		Payload:     string(body),
		TriggeredAt: entity.Now(),
	}

	status, respBody, err := s.post(ctx, w, event.Name, body)
	completed := entity.Now()
	record.CompletedAt = &completed
	record.ResponseStatus = status
	record.ResponseBody = respBody
	if err != nil {
		record.ErrorMessage = err.Error()
	} else {
		record.Success = status >= 200 && status < 300
		if !record.Success {
			record.ErrorMessage = fmt.Sprintf("HTTP %d", status)
		}
	}

	log := logger.FromContext(ctx).With("webhook_id", w.ID, "event", event.Name)
	if record.Success {
		log.Info("webhook entregue", "status", status)
	} else {
		log.Warn("falha na entrega do webhook", "status", status, "error", record.ErrorMessage)
	}
	if s.Metrics != nil {
		s.Metrics.ObserveWebhook(event.Name, record.Success)
	}

	if err := s.Repo.AppendLog(ctx, record); err != nil {
		return record, err
	}
	if err := s.Repo.RecordTrigger(ctx, w.ID, record.Success, completed); err != nil {
		return record, err
	}
	return record, nil
}

func (s *Sender) post(ctx context.Context, w *entity.Webhook, name entity.WebhookEvent, body []byte) (int, string, error) {
	timeout := time.Duration(w.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = entity.DefaultWebhookTimeout * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(EventHeader, string(name))
	req.Header.Set(SignatureHeader, Sign(w.Secret, body))

	resp, err := s.Client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	// o corte pode cair no meio de um caractere multibyte
	return resp.StatusCode, strings.ToValidUTF8(string(raw), ""), nil
}
