package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ActivityKind string

const (
	ActivityCreated             ActivityKind = "created"
	ActivityUpdated             ActivityKind = "updated"
	ActivityMoved               ActivityKind = "moved"
	ActivityDeleted             ActivityKind = "deleted"
	ActivityAutomationTriggered ActivityKind = "automation_triggered"
	ActivityAutomationFailed    ActivityKind = "automation_failed"
	ActivityTaskCreated         ActivityKind = "task_created"
	ActivityEventCreated        ActivityKind = "event_created"
)

// Activity é uma entrada imutável do histórico de um lead.
// LeadID é referência fraca: apagar o lead não apaga o histórico.
type Activity struct {
	ID        string       `json:"id"`
	LeadID    string       `json:"lead_id"`
	UserID    string       `json:"user_id"`
	Kind      ActivityKind `json:"action"`
	Details   string       `json:"details"`
	CreatedAt time.Time    `json:"timestamp"`
}

func NewActivity(leadID, userID string, kind ActivityKind, details string) *Activity {
	return &Activity{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		UserID:    userID,
		Kind:      kind,
		Details:   details,
		CreatedAt: Now(),
	}
}

type ActivityRepositoryInterface interface {
	Append(ctx context.Context, a *Activity) error
	ListByLead(ctx context.Context, leadID string) ([]*Activity, error)
	ListRecent(ctx context.Context, limit int) ([]*Activity, error)
}
