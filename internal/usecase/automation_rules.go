package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type AutomationRuleUseCase struct {
	Rules entity.AutomationRuleRepositoryInterface
}

func NewAutomationRuleUseCase(rules entity.AutomationRuleRepositoryInterface) *AutomationRuleUseCase {
	return &AutomationRuleUseCase{Rules: rules}
}

// Create valida os parâmetros da ação aqui, não na hora de executar.
func (uc *AutomationRuleUseCase) Create(ctx context.Context, input CreateRuleInput) (*entity.AutomationRule, error) {
	principal, err := requireAutomationManager(ctx)
	if err != nil {
		return nil, err
	}
	if !input.TriggerStatus.Valid() {
		return nil, NewDomainError(CodeInvalidStatus, "invalid trigger status %q", input.TriggerStatus)
	}

	action, err := entity.ParseAction(input.Action, input.ActionParams)
	if err != nil {
		return nil, translate(err, "automation rule")
	}
	rule, err := entity.NewAutomationRule(input.Name, input.TriggerStatus, action, principal.UserID)
	if err != nil {
		return nil, translate(err, "automation rule")
	}
	if err := uc.Rules.Create(ctx, rule); err != nil {
		return nil, translate(err, "automation rule")
	}
	return rule, nil
}

func (uc *AutomationRuleUseCase) List(ctx context.Context) ([]*entity.AutomationRule, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := uc.Rules.ListByCreator(ctx, principal.UserID)
	if err != nil {
		return nil, translate(err, "automation rules")
	}
	return rules, nil
}

// Toggle inverte o estado da regra e devolve o novo valor.
func (uc *AutomationRuleUseCase) Toggle(ctx context.Context, id string) (*entity.AutomationRule, error) {
	if _, err := requireAutomationManager(ctx); err != nil {
		return nil, err
	}
	rule, err := uc.Rules.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "automation rule")
	}
	rule.Enabled = !rule.Enabled
	if err := uc.Rules.SetEnabled(ctx, id, rule.Enabled); err != nil {
		return nil, translate(err, "automation rule")
	}
	return rule, nil
}

func requireAutomationManager(ctx context.Context) (Principal, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return Principal{}, err
	}
	if !principal.Role.CanManageAutomation() {
		return Principal{}, NewDomainError(CodeForbidden, "only managers and admins can manage automation rules")
	}
	return principal, nil
}
