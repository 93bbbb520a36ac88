package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

// MoveLeadUseCase é a transição de status do kanban: valida, grava status e
// posição, registra "moved", roda a automação e publica o evento.
type MoveLeadUseCase struct {
	Leads      entity.LeadRepositoryInterface
	Activities *ActivityRecorder
	Automation *AutomationEngine
	Events     EventPublisher
	Notifier   *Notifier
	Metrics    PipelineMetrics
}

func NewMoveLeadUseCase(
	leads entity.LeadRepositoryInterface,
	activities *ActivityRecorder,
	automation *AutomationEngine,
	events EventPublisher,
	notifier *Notifier,
	metrics PipelineMetrics,
) *MoveLeadUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &MoveLeadUseCase{
		Leads:      leads,
		Activities: activities,
		Automation: automation,
		Events:     events,
		Notifier:   notifier,
		Metrics:    metrics,
	}
}

func (uc *MoveLeadUseCase) Execute(ctx context.Context, input MoveLeadInput) (*MoveLeadOutput, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !input.NewStatus.Valid() {
		return nil, NewDomainError(CodeInvalidStatus, "invalid status %q", input.NewStatus)
	}
	if input.LeadID == "" {
		return nil, NewDomainError(CodeValidation, "lead_id is required")
	}
	if input.NewPosition < 0 {
		return nil, NewDomainError(CodeValidation, "new_position must not be negative")
	}

	lead, err := uc.Leads.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, translate(err, "lead")
	}
	if input.ExpectedUpdatedAt != nil && !lead.UpdatedAt.Equal(*input.ExpectedUpdatedAt) {
		return nil, ErrConflict
	}

	out := &MoveLeadOutput{
		Lead:       lead,
		OldStatus:  lead.Status,
		NewStatus:  input.NewStatus,
		Automation: []RuleOutcome{},
	}
	if lead.Status == input.NewStatus {
		out.Unchanged = true
		return out, nil
	}

	now := entity.Now()
	position, err := uc.Leads.MoveToPosition(ctx, lead.ID, input.NewStatus, input.NewPosition, now)
	if err != nil {
		return nil, translate(err, "lead")
	}
	lead.Status = input.NewStatus
	lead.Position = position
	lead.UpdatedAt = now
	uc.Metrics.ObserveMove(out.OldStatus, out.NewStatus)

	details := fmt.Sprintf("%s -> %s", out.OldStatus, out.NewStatus)
	if err := uc.Activities.Record(ctx, lead.ID, principal.UserID, entity.ActivityMoved, details); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).With("lead_id", lead.ID)
	if uc.Automation != nil {
		outcomes, err := uc.Automation.Run(ctx, lead.ID, input.NewStatus, principal.UserID)
		if err != nil {
			log.Error("falha ao avaliar regras de automação", "error", err)
		} else {
			out.Automation = outcomes
		}
		if len(outcomes) > 0 {
			if fresh, err := uc.Leads.FindByID(ctx, lead.ID); err == nil {
				out.Lead = fresh
			} else {
				log.Warn("falha ao recarregar lead após automação", "error", err)
			}
		}
	}

	publish(ctx, uc.Events, entity.EventLeadStatusChanged, principal.UserID, statusChangedPayload{
		Lead:      out.Lead,
		OldStatus: out.OldStatus,
		NewStatus: out.NewStatus,
	})
	uc.Notifier.StatusChanged(ctx, principal.UserID, out.Lead, out.OldStatus)

	log.Info("lead movido", "from", out.OldStatus, "to", out.NewStatus, "rules", len(out.Automation))
	return out, nil
}
