package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

const DefaultActionTimeout = 5 * time.Second

// AutomationEngine casa regras ativas com o novo status e executa cada uma
// isolada: a falha de uma regra não impede as seguintes.
type AutomationEngine struct {
	Rules         entity.AutomationRuleRepositoryInterface
	Executor      *ActionExecutor
	Activities    *ActivityRecorder
	ActionTimeout time.Duration
	Metrics       PipelineMetrics
}

func NewAutomationEngine(rules entity.AutomationRuleRepositoryInterface, executor *ActionExecutor, activities *ActivityRecorder, timeout time.Duration, metrics PipelineMetrics) *AutomationEngine {
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &AutomationEngine{
		Rules:         rules,
		Executor:      executor,
		Activities:    activities,
		ActionTimeout: timeout,
		Metrics:       metrics,
	}
}

// Run avalia as regras com trigger == status em ordem created_at, id.
func (e *AutomationEngine) Run(ctx context.Context, leadID string, status entity.LeadStatus, userID string) ([]RuleOutcome, error) {
	rules, err := e.Rules.ListEnabledByTrigger(ctx, status)
	if err != nil {
		return nil, translate(err, "automation rules")
	}

	log := logger.FromContext(ctx)
	outcomes := make([]RuleOutcome, 0, len(rules))
	for _, rule := range rules {
		outcome := RuleOutcome{RuleID: rule.ID, RuleName: rule.Name, Action: rule.Action.Kind, OK: true}

		if err := e.runOne(ctx, rule, leadID, userID); err != nil {
			outcome.OK = false
			outcome.Error = err.Error()
			log.Warn("regra de automação falhou",
				"rule_id", rule.ID, "lead_id", leadID, "action", rule.Action.Kind, "error", err)

			// parâmetro inválido não toca no histórico do lead
			if !errors.Is(err, ErrInvalidParameter) {
				details := fmt.Sprintf("rule %q: %s failed: %v", rule.Name, rule.Action.Kind, err)
				if recErr := e.Activities.Record(ctx, leadID, userID, entity.ActivityAutomationFailed, details); recErr != nil {
					log.Error("falha ao registrar erro de automação", "rule_id", rule.ID, "error", recErr)
				}
			}
		}

		e.Metrics.ObserveAction(rule.Action.Kind, outcome.OK)
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (e *AutomationEngine) runOne(ctx context.Context, rule *entity.AutomationRule, leadID, userID string) error {
	actionCtx, cancel := context.WithTimeout(ctx, e.ActionTimeout)
	defer cancel()

	err := e.Executor.Execute(actionCtx, rule, leadID, userID)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("action timed out after %s", e.ActionTimeout)
	}
	return err
}
