package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationLeadCreated       NotificationType = "lead_created"
	NotificationLeadStatusChanged NotificationType = "lead_status_changed"
	NotificationLeadAssigned      NotificationType = "lead_assigned"
	NotificationFollowUpDue       NotificationType = "follow_up_due"
	NotificationDealWon           NotificationType = "deal_won"
	NotificationDealLost          NotificationType = "deal_lost"
	NotificationHighValueLead     NotificationType = "high_value_lead"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityHigh   NotificationPriority = "high"
)

// HighValueThreshold acima deste valor o lead gera alerta extra.
const HighValueThreshold = 10000.0

type Notification struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	Type      NotificationType     `json:"type"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Priority  NotificationPriority `json:"priority"`
	LeadID    string               `json:"lead_id,omitempty"`
	ActionURL string               `json:"action_url,omitempty"`
	Read      bool                 `json:"is_read"`
	ReadAt    *time.Time           `json:"read_at,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

func NewNotification(userID string, typ NotificationType, title, message string, priority NotificationPriority, leadID string) *Notification {
	n := &Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Priority:  priority,
		LeadID:    leadID,
		CreatedAt: Now(),
	}
	if leadID != "" {
		n.ActionURL = "/kanban#" + leadID
	}
	return n
}

type NotificationFilter struct {
	UnreadOnly bool
	Skip       int
	Limit      int
}

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, userID string, filter NotificationFilter) ([]*Notification, error)
	Count(ctx context.Context, userID string) (total int, unread int, err error)
	MarkRead(ctx context.Context, userID, id string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) error
	Delete(ctx context.Context, userID, id string) error
}

// NotificationSettings liga ou desliga cada tipo de notificação por usuário.
type NotificationSettings struct {
	UserID             string    `json:"user_id"`
	LeadCreated        bool      `json:"lead_created"`
	LeadStatusChanged  bool      `json:"lead_status_changed"`
	LeadAssigned       bool      `json:"lead_assigned"`
	FollowUpDue        bool      `json:"follow_up_due"`
	HighValueLeads     bool      `json:"high_value_leads"`
	DealClosed         bool      `json:"deal_closed"`
	EmailNotifications bool      `json:"email_notifications"`
	PushNotifications  bool      `json:"push_notifications"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultNotificationSettings tem tudo ligado, menos o canal de email.
func DefaultNotificationSettings(userID string) *NotificationSettings {
	now := Now()
	return &NotificationSettings{
		UserID:            userID,
		LeadCreated:       true,
		LeadStatusChanged: true,
		LeadAssigned:      true,
		FollowUpDue:       true,
		HighValueLeads:    true,
		DealClosed:        true,
		PushNotifications: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Allows diz se o tipo pode ser entregue. Ganho e perda seguem DealClosed.
func (s *NotificationSettings) Allows(typ NotificationType) bool {
	switch typ {
	case NotificationLeadCreated:
		return s.LeadCreated
	case NotificationLeadStatusChanged:
		return s.LeadStatusChanged
	case NotificationLeadAssigned:
		return s.LeadAssigned
	case NotificationFollowUpDue:
		return s.FollowUpDue
	case NotificationHighValueLead:
		return s.HighValueLeads
	case NotificationDealWon, NotificationDealLost:
		return s.DealClosed
	default:
		return true
	}
}

type NotificationSettingsRepositoryInterface interface {
	// FindByUser devolve ErrNotFound quando o usuário nunca salvou preferências.
	FindByUser(ctx context.Context, userID string) (*NotificationSettings, error)
	Upsert(ctx context.Context, s *NotificationSettings) error
}
