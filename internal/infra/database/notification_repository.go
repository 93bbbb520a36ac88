package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type NotificationRepository struct {
	DB *DB
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, priority, lead_id, action_url,
			is_read, read_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, string(n.Priority), n.LeadID, n.ActionURL,
		n.Read, n.ReadAt, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao salvar notificação: %w", err)
	}
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, userID string, filter entity.NotificationFilter) ([]*entity.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, priority, lead_id, action_url, is_read, read_at, created_at
		FROM notifications WHERE user_id = ?`
	args := []any{userID}
	if filter.UnreadOnly {
		query += " AND is_read = ?"
		args = append(args, false)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar notificações: %w", err)
	}
	defer rows.Close()

	out := []*entity.Notification{}
	for rows.Next() {
		var (
			n             entity.Notification
			typ, priority string
			readAt        sql.NullTime
		)
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &priority, &n.LeadID,
			&n.ActionURL, &n.Read, &readAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = entity.NotificationType(typ)
		n.Priority = entity.NotificationPriority(priority)
		n.ReadAt = timePtr(readAt)
		n.CreatedAt = n.CreatedAt.UTC()
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) Count(ctx context.Context, userID string) (int, int, error) {
	var total, unread int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_read = ? THEN 1 ELSE 0 END), 0)
		FROM notifications WHERE user_id = ?`, false, userID).Scan(&total, &unread)
	if err != nil {
		return 0, 0, fmt.Errorf("erro ao contar notificações: %w", err)
	}
	return total, unread, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = ?, read_at = ? WHERE user_id = ? AND id = ?`,
		true, at, userID, id)
	if err != nil {
		return fmt.Errorf("erro ao marcar notificação: %w", err)
	}
	return checkAffected(res, entity.ErrNotFound)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = ?, read_at = ? WHERE user_id = ? AND is_read = ?`,
		true, at, userID, false)
	if err != nil {
		return fmt.Errorf("erro ao marcar notificações: %w", err)
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("erro ao remover notificação: %w", err)
	}
	return checkAffected(res, entity.ErrNotFound)
}
