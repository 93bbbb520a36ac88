package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ActionKind string

const (
	ActionScheduleFollowUp ActionKind = "schedule_follow_up"
	ActionCreateTask       ActionKind = "create_task"
	// ActionSendEmail pode ser escolhida na regra mas não tem efeito no servidor.
	ActionSendEmail ActionKind = "send_email"
)

var (
	ErrUnknownAction          = errors.New("unknown automation action")
	ErrInvalidActionParameter = errors.New("invalid action parameter")
	ErrRuleNameRequired       = errors.New("name is required")
)

type FollowUpParams struct {
	Days int
}

type TaskParams struct {
	Description string
}

type EmailParams struct {
	Template string
}

// Action é uma variante: Kind diz qual dos payloads está preenchido.
type Action struct {
	Kind     ActionKind
	FollowUp *FollowUpParams
	Task     *TaskParams
	Email    *EmailParams
}

// ParseAction valida os parâmetros na criação da regra.
func ParseAction(kind ActionKind, params map[string]string) (Action, error) {
	switch kind {
	case ActionScheduleFollowUp:
		raw, ok := params["days"]
		if !ok {
			return Action{}, fmt.Errorf("%w: days is required", ErrInvalidActionParameter)
		}
		days, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Action{}, fmt.Errorf("%w: days must be an integer, got %q", ErrInvalidActionParameter, raw)
		}
		if days < 1 {
			return Action{}, fmt.Errorf("%w: days must be at least 1", ErrInvalidActionParameter)
		}
		return Action{Kind: kind, FollowUp: &FollowUpParams{Days: days}}, nil
	case ActionCreateTask:
		return Action{Kind: kind, Task: &TaskParams{Description: strings.TrimSpace(params["task_description"])}}, nil
	case ActionSendEmail:
		return Action{Kind: kind, Email: &EmailParams{Template: strings.TrimSpace(params["email_template"])}}, nil
	default:
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}
}

// DecodeAction remonta a ação a partir dos parâmetros gravados sem rejeitar
// nada. Valor inválido só aparece quando a ação roda.
func DecodeAction(kind ActionKind, params map[string]string) Action {
	a := Action{Kind: kind}
	switch kind {
	case ActionScheduleFollowUp:
		days, _ := strconv.Atoi(strings.TrimSpace(params["days"]))
		a.FollowUp = &FollowUpParams{Days: days}
	case ActionCreateTask:
		a.Task = &TaskParams{Description: params["task_description"]}
	case ActionSendEmail:
		a.Email = &EmailParams{Template: params["email_template"]}
	}
	return a
}

// Params é o formato do payload no banco e no JSON.
func (a Action) Params() map[string]string {
	out := map[string]string{}
	switch {
	case a.FollowUp != nil:
		out["days"] = strconv.Itoa(a.FollowUp.Days)
	case a.Task != nil:
		if a.Task.Description != "" {
			out["task_description"] = a.Task.Description
		}
	case a.Email != nil:
		if a.Email.Template != "" {
			out["email_template"] = a.Email.Template
		}
	}
	return out
}

type AutomationRule struct {
	ID            string
	Name          string
	TriggerStatus LeadStatus
	Action        Action
	Enabled       bool
	CreatedBy     string
	CreatedAt     time.Time
}

func NewAutomationRule(name string, trigger LeadStatus, action Action, createdBy string) (*AutomationRule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRuleNameRequired
	}
	if !trigger.Valid() {
		return nil, ErrInvalidStatus
	}
	return &AutomationRule{
		ID:            uuid.New().String(),
		Name:          name,
		TriggerStatus: trigger,
		Action:        action,
		Enabled:       true,
		CreatedBy:     createdBy,
		CreatedAt:     Now(),
	}, nil
}

type automationRuleJSON struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	TriggerStatus LeadStatus        `json:"trigger_status"`
	Action        ActionKind        `json:"action"`
	ActionParams  map[string]string `json:"action_params"`
	Enabled       bool              `json:"is_active"`
	CreatedBy     string            `json:"created_by"`
	CreatedAt     time.Time         `json:"created_at"`
}

func (r AutomationRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(automationRuleJSON{
		ID:            r.ID,
		Name:          r.Name,
		TriggerStatus: r.TriggerStatus,
		Action:        r.Action.Kind,
		ActionParams:  r.Action.Params(),
		Enabled:       r.Enabled,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
	})
}

type AutomationRuleRepositoryInterface interface {
	Create(ctx context.Context, rule *AutomationRule) error
	FindByID(ctx context.Context, id string) (*AutomationRule, error)
	ListByCreator(ctx context.Context, userID string) ([]*AutomationRule, error)
	// ListEnabledByTrigger ordena por created_at, id.
	ListEnabledByTrigger(ctx context.Context, status LeadStatus) ([]*AutomationRule, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
}
