package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

const defaultTaskDescription = "Automated task created"

type ActionExecutor struct {
	Leads      entity.LeadRepositoryInterface
	Activities *ActivityRecorder
	Now        func() time.Time
}

func NewActionExecutor(leads entity.LeadRepositoryInterface, activities *ActivityRecorder) *ActionExecutor {
	return &ActionExecutor{Leads: leads, Activities: activities, Now: entity.Now}
}

// Execute roda a ação da regra sobre o lead. Sucesso grava exatamente uma
// atividade automation_triggered; parâmetro inválido falha sem gravar nada.
func (e *ActionExecutor) Execute(ctx context.Context, rule *entity.AutomationRule, leadID, userID string) error {
	var summary string

	switch rule.Action.Kind {
	case entity.ActionScheduleFollowUp:
		if rule.Action.FollowUp == nil || rule.Action.FollowUp.Days < 1 {
			return NewDomainError(CodeInvalidParameter, "rule %q: days must be an integer >= 1", rule.Name)
		}
		at := e.Now().Add(time.Duration(rule.Action.FollowUp.Days) * 24 * time.Hour)
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Leads.SetNextFollowUp(ctx, leadID, at); err != nil {
			return translate(err, "lead")
		}
		summary = fmt.Sprintf("follow-up scheduled for %s", at.Format("2006-01-02"))

	case entity.ActionCreateTask:
		description := defaultTaskDescription
		if rule.Action.Task != nil && rule.Action.Task.Description != "" {
			description = rule.Action.Task.Description
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Activities.Record(ctx, leadID, userID, entity.ActivityTaskCreated, description); err != nil {
			return err
		}
		summary = "task created: " + description

	case entity.ActionSendEmail:
		template := ""
		if rule.Action.Email != nil {
			template = rule.Action.Email.Template
		}
		logger.FromContext(ctx).Debug("send_email sem efeito no servidor", "rule_id", rule.ID, "template", template)
		summary = "send_email accepted"

	default:
		return NewDomainError(CodeInvalidParameter, "rule %q: unknown action %q", rule.Name, rule.Action.Kind)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return e.Activities.Record(ctx, leadID, userID, entity.ActivityAutomationTriggered,
		fmt.Sprintf("rule %q: %s", rule.Name, summary))
}
