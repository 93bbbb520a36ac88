package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type NotificationSettingsRepository struct {
	DB *DB
}

func NewNotificationSettingsRepository(db *DB) *NotificationSettingsRepository {
	return &NotificationSettingsRepository{DB: db}
}

func (r *NotificationSettingsRepository) FindByUser(ctx context.Context, userID string) (*entity.NotificationSettings, error) {
	var s entity.NotificationSettings
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id, lead_created, lead_status_changed, lead_assigned, follow_up_due,
			high_value_leads, deal_closed, email_notifications, push_notifications, created_at, updated_at
		FROM notification_settings WHERE user_id = ?`, userID).Scan(
		&s.UserID, &s.LeadCreated, &s.LeadStatusChanged, &s.LeadAssigned, &s.FollowUpDue,
		&s.HighValueLeads, &s.DealClosed, &s.EmailNotifications, &s.PushNotifications,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar preferências de notificação: %w", err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

// Upsert preserva o created_at da primeira gravação.
func (r *NotificationSettingsRepository) Upsert(ctx context.Context, s *entity.NotificationSettings) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO notification_settings (user_id, lead_created, lead_status_changed, lead_assigned,
			follow_up_due, high_value_leads, deal_closed, email_notifications, push_notifications,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			lead_created = excluded.lead_created,
			lead_status_changed = excluded.lead_status_changed,
			lead_assigned = excluded.lead_assigned,
			follow_up_due = excluded.follow_up_due,
			high_value_leads = excluded.high_value_leads,
			deal_closed = excluded.deal_closed,
			email_notifications = excluded.email_notifications,
			push_notifications = excluded.push_notifications,
			updated_at = excluded.updated_at`,
		s.UserID, s.LeadCreated, s.LeadStatusChanged, s.LeadAssigned, s.FollowUpDue,
		s.HighValueLeads, s.DealClosed, s.EmailNotifications, s.PushNotifications,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao salvar preferências de notificação: %w", err)
	}
	return nil
}
