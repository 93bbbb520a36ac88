package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event é o envelope publicado na fila e entregue aos webhooks do UserID.
type Event struct {
	ID         string          `json:"id"`
	Name       WebhookEvent    `json:"event"`
	UserID     string          `json:"user_id"`
	Data       json.RawMessage `json:"data"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewEvent(name WebhookEvent, userID string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar evento %s: %w", name, err)
	}
	return &Event{
		ID:         uuid.New().String(),
		Name:       name,
		UserID:     userID,
		Data:       raw,
		OccurredAt: Now(),
	}, nil
}
