package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type WebhookRepository struct {
	DB *DB
}

func NewWebhookRepository(db *DB) *WebhookRepository {
	return &WebhookRepository{DB: db}
}

const webhookColumns = `id, user_id, name, url, events, secret, is_active, retry_count, timeout_seconds,
	total_triggers, failed_triggers, last_triggered, created_at, updated_at`

func (r *WebhookRepository) Create(ctx context.Context, w *entity.Webhook) error {
	events, err := json.Marshal(w.Events)
	if err != nil {
		return fmt.Errorf("erro ao serializar eventos: %w", err)
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO webhooks (`+webhookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, w.Name, w.URL, string(events), w.Secret, w.Active, w.RetryCount, w.TimeoutSeconds,
		w.TotalTriggers, w.FailedTriggers, w.LastTriggered, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao salvar webhook: %w", err)
	}
	return nil
}

func (r *WebhookRepository) FindByID(ctx context.Context, id string) (*entity.Webhook, error) {
	w, err := scanWebhook(r.DB.QueryRowContext(ctx, `SELECT `+webhookColumns+` FROM webhooks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar webhook: %w", err)
	}
	return w, nil
}

func (r *WebhookRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Webhook, error) {
	return r.query(ctx, `SELECT `+webhookColumns+` FROM webhooks WHERE user_id = ? ORDER BY created_at, id`, userID)
}

// ListActiveForEvent filtra o evento em Go porque events é JSON em TEXT.
func (r *WebhookRepository) ListActiveForEvent(ctx context.Context, userID string, event entity.WebhookEvent) ([]*entity.Webhook, error) {
	all, err := r.query(ctx,
		`SELECT `+webhookColumns+` FROM webhooks WHERE user_id = ? AND is_active = ? ORDER BY created_at, id`,
		userID, true)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, w := range all {
		if w.Subscribes(event) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *WebhookRepository) Update(ctx context.Context, w *entity.Webhook) error {
	events, err := json.Marshal(w.Events)
	if err != nil {
		return fmt.Errorf("erro ao serializar eventos: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE webhooks SET name = ?, url = ?, events = ?, is_active = ?, retry_count = ?,
			timeout_seconds = ?, updated_at = ?
		WHERE id = ?`,
		w.Name, w.URL, string(events), w.Active, w.RetryCount, w.TimeoutSeconds, w.UpdatedAt, w.ID,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar webhook: %w", err)
	}
	return checkAffected(res, entity.ErrNotFound)
}

func (r *WebhookRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM webhooks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("erro ao remover webhook: %w", err)
	}
	if err := checkAffected(res, entity.ErrNotFound); err != nil {
		return err
	}
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM webhook_logs WHERE webhook_id = ?`, id); err != nil {
		return fmt.Errorf("erro ao remover logs do webhook: %w", err)
	}
	return nil
}

func (r *WebhookRepository) RecordTrigger(ctx context.Context, id string, success bool, at time.Time) error {
	failed := 0
	if !success {
		failed = 1
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE webhooks SET total_triggers = total_triggers + 1,
			failed_triggers = failed_triggers + ?,
			last_triggered = ?
		WHERE id = ?`, failed, at, id)
	if err != nil {
		return fmt.Errorf("erro ao atualizar estatísticas do webhook: %w", err)
	}
	return checkAffected(res, entity.ErrNotFound)
}

func (r *WebhookRepository) AppendLog(ctx context.Context, l *entity.WebhookLog) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO webhook_logs (id, webhook_id, event, payload, response_status, response_body,
			error_message, success, triggered_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.WebhookID, string(l.Event), l.Payload, l.ResponseStatus, l.ResponseBody,
		l.ErrorMessage, l.Success, l.TriggeredAt, l.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao gravar log do webhook: %w", err)
	}
	return nil
}

func (r *WebhookRepository) ListLogs(ctx context.Context, webhookID string, limit int) ([]*entity.WebhookLog, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, webhook_id, event, payload, response_status, response_body, error_message,
			success, triggered_at, completed_at
		FROM webhook_logs WHERE webhook_id = ?
		ORDER BY triggered_at DESC, id DESC LIMIT ?`, webhookID, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar logs do webhook: %w", err)
	}
	defer rows.Close()

	out := []*entity.WebhookLog{}
	for rows.Next() {
		var (
			l         entity.WebhookLog
			event     string
			completed sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.WebhookID, &event, &l.Payload, &l.ResponseStatus, &l.ResponseBody,
			&l.ErrorMessage, &l.Success, &l.TriggeredAt, &completed); err != nil {
			return nil, err
		}
		l.Event = entity.WebhookEvent(event)
		l.TriggeredAt = l.TriggeredAt.UTC()
		l.CompletedAt = timePtr(completed)
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (r *WebhookRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Webhook, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar webhooks: %w", err)
	}
	defer rows.Close()

	out := []*entity.Webhook{}
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func scanWebhook(s scanner) (*entity.Webhook, error) {
	var (
		w      entity.Webhook
		events string
		last   sql.NullTime
	)
	err := s.Scan(&w.ID, &w.UserID, &w.Name, &w.URL, &events, &w.Secret, &w.Active, &w.RetryCount,
		&w.TimeoutSeconds, &w.TotalTriggers, &w.FailedTriggers, &last, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(events), &w.Events); err != nil {
		return nil, fmt.Errorf("eventos inválidos no webhook %s: %w", w.ID, err)
	}
	w.LastTriggered = timePtr(last)
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return &w, nil
}
