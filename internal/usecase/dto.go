package usecase

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadInput struct {
	Title             string            `json:"title"`
	Company           string            `json:"company"`
	ContactName       string            `json:"contact_name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Status            entity.LeadStatus `json:"status"`
	Tags              []string          `json:"tags"`
	Notes             string            `json:"notes"`
	Value             *float64          `json:"value"`
	Priority          entity.Priority   `json:"priority"`
	Source            string            `json:"source"`
	AssignedTo        string            `json:"assigned_to"`
	NextFollowUp      *time.Time        `json:"next_follow_up"`
	ExpectedCloseDate *time.Time        `json:"expected_close_date"`
}

// UpdateLeadInput: campos nil ficam como estão.
type UpdateLeadInput struct {
	ID                string             `json:"-"`
	Title             *string            `json:"title"`
	Company           *string            `json:"company"`
	ContactName       *string            `json:"contact_name"`
	Email             *string            `json:"email"`
	Phone             *string            `json:"phone"`
	Status            *entity.LeadStatus `json:"status"`
	Tags              *[]string          `json:"tags"`
	Notes             *string            `json:"notes"`
	Value             *float64           `json:"value"`
	Priority          *entity.Priority   `json:"priority"`
	Source            *string            `json:"source"`
	AssignedTo        *string            `json:"assigned_to"`
	NextFollowUp      *time.Time         `json:"next_follow_up"`
	ExpectedCloseDate *time.Time         `json:"expected_close_date"`
	ExpectedUpdatedAt *time.Time         `json:"expected_updated_at"`
}

type MoveLeadInput struct {
	LeadID      string            `json:"lead_id"`
	NewStatus   entity.LeadStatus `json:"new_status"`
	NewPosition int               `json:"new_position"`
	// ExpectedUpdatedAt é opcional; quando vem e difere do banco, o move falha com CONFLICT.
	ExpectedUpdatedAt *time.Time `json:"expected_updated_at"`
}

type MoveLeadOutput struct {
	Lead       *entity.Lead      `json:"lead"`
	OldStatus  entity.LeadStatus `json:"old_status"`
	NewStatus  entity.LeadStatus `json:"new_status"`
	Unchanged  bool              `json:"unchanged"`
	Automation []RuleOutcome     `json:"automation"`
}

// RuleOutcome é o resultado de uma regra de automação num move.
type RuleOutcome struct {
	RuleID   string            `json:"rule_id"`
	RuleName string            `json:"rule_name"`
	Action   entity.ActionKind `json:"action"`
	OK       bool              `json:"ok"`
	Error    string            `json:"error,omitempty"`
}

type KanbanColumn struct {
	Status entity.LeadStatus `json:"status"`
	Title  string            `json:"title"`
	Color  string            `json:"color"`
	Leads  []*entity.Lead    `json:"leads"`
}

type CreateRuleInput struct {
	Name          string            `json:"name"`
	TriggerStatus entity.LeadStatus `json:"trigger_status"`
	Action        entity.ActionKind `json:"action"`
	ActionParams  map[string]string `json:"action_params"`
}

// NotificationSettingsInput: campos nil mantêm o valor salvo.
type NotificationSettingsInput struct {
	LeadCreated        *bool `json:"lead_created"`
	LeadStatusChanged  *bool `json:"lead_status_changed"`
	LeadAssigned       *bool `json:"lead_assigned"`
	FollowUpDue        *bool `json:"follow_up_due"`
	HighValueLeads     *bool `json:"high_value_leads"`
	DealClosed         *bool `json:"deal_closed"`
	EmailNotifications *bool `json:"email_notifications"`
	PushNotifications  *bool `json:"push_notifications"`
}

type CalendarEventInput struct {
	LeadID      string                   `json:"lead_id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	StartTime   time.Time                `json:"start_time"`
	EndTime     time.Time                `json:"end_time"`
	EventType   entity.CalendarEventType `json:"event_type"`
}
