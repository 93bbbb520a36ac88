package database

import (
	"context"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CalendarEventRepository struct {
	DB *DB
}

func NewCalendarEventRepository(db *DB) *CalendarEventRepository {
	return &CalendarEventRepository{DB: db}
}

func (r *CalendarEventRepository) Create(ctx context.Context, e *entity.CalendarEvent) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO calendar_events (id, lead_id, user_id, title, description, start_time, end_time,
			event_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.LeadID, e.UserID, e.Title, e.Description, e.StartTime, e.EndTime,
		string(e.EventType), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao salvar evento: %w", err)
	}
	return nil
}

func (r *CalendarEventRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.CalendarEvent, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, lead_id, user_id, title, description, start_time, end_time, event_type, created_at
		FROM calendar_events WHERE user_id = ?
		ORDER BY start_time, id
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar eventos: %w", err)
	}
	defer rows.Close()

	out := []*entity.CalendarEvent{}
	for rows.Next() {
		var (
			e   entity.CalendarEvent
			typ string
		)
		if err := rows.Scan(&e.ID, &e.LeadID, &e.UserID, &e.Title, &e.Description,
			&e.StartTime, &e.EndTime, &typ, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.EventType = entity.CalendarEventType(typ)
		e.StartTime = e.StartTime.UTC()
		e.EndTime = e.EndTime.UTC()
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, &e)
	}
	return out, rows.Err()
}
