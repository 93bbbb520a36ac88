package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

type UpdateLeadUseCase struct {
	Leads      entity.LeadRepositoryInterface
	Activities *ActivityRecorder
	Automation *AutomationEngine
	Events     EventPublisher
	Notifier   *Notifier
	Metrics    PipelineMetrics
}

func NewUpdateLeadUseCase(
	leads entity.LeadRepositoryInterface,
	activities *ActivityRecorder,
	automation *AutomationEngine,
	events EventPublisher,
	notifier *Notifier,
	metrics PipelineMetrics,
) *UpdateLeadUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UpdateLeadUseCase{
		Leads:      leads,
		Activities: activities,
		Automation: automation,
		Events:     events,
		Notifier:   notifier,
		Metrics:    metrics,
	}
}

// Execute aplica uma atualização parcial. Se o status mudar, roda a automação
// e publica lead.status_changed além de lead.updated.
func (uc *UpdateLeadUseCase) Execute(ctx context.Context, input UpdateLeadInput) (*entity.Lead, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, NewDomainError(CodeInvalidStatus, "invalid status %q", *input.Status)
	}

	lead, err := uc.Leads.FindByID(ctx, input.ID)
	if err != nil {
		return nil, translate(err, "lead")
	}
	if input.ExpectedUpdatedAt != nil && !lead.UpdatedAt.Equal(*input.ExpectedUpdatedAt) {
		return nil, ErrConflict
	}

	oldStatus, oldAssignee := lead.Status, lead.AssignedTo
	applyLeadUpdate(lead, input)
	if err := lead.Validate(); err != nil {
		return nil, translate(err, "lead")
	}
	if lead.Status != oldStatus {
		last, ok, err := uc.Leads.MaxPosition(ctx, lead.Status)
		if err != nil {
			return nil, translate(err, "lead")
		}
		lead.Position = 0
		if ok {
			lead.Position = last + 1
		}
	}
	lead.UpdatedAt = entity.Now()

	if err := uc.Leads.Update(ctx, lead); err != nil {
		return nil, translate(err, "lead")
	}
	if err := uc.Activities.Record(ctx, lead.ID, principal.UserID, entity.ActivityUpdated, "Lead updated"); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	if lead.Status != oldStatus {
		uc.Metrics.ObserveMove(oldStatus, lead.Status)
		if uc.Automation != nil {
			if _, err := uc.Automation.Run(ctx, lead.ID, lead.Status, principal.UserID); err != nil {
				log.Error("automação falhou na atualização do lead", "lead_id", lead.ID, "error", err)
			}
			if fresh, err := uc.Leads.FindByID(ctx, lead.ID); err == nil {
				lead = fresh
			}
		}
		publish(ctx, uc.Events, entity.EventLeadStatusChanged, principal.UserID, statusChangedPayload{
			Lead:      lead,
			OldStatus: oldStatus,
			NewStatus: lead.Status,
		})
		uc.Notifier.StatusChanged(ctx, principal.UserID, lead, oldStatus)
	}
	if lead.AssignedTo != oldAssignee {
		uc.Notifier.Assigned(ctx, principal.UserID, lead)
	}
	publish(ctx, uc.Events, entity.EventLeadUpdated, principal.UserID, lead)

	return lead, nil
}

type statusChangedPayload struct {
	Lead      *entity.Lead      `json:"lead"`
	OldStatus entity.LeadStatus `json:"old_status"`
	NewStatus entity.LeadStatus `json:"new_status"`
}

func applyLeadUpdate(lead *entity.Lead, in UpdateLeadInput) {
	if in.Title != nil {
		lead.Title = *in.Title
	}
	if in.Company != nil {
		lead.Company = *in.Company
	}
	if in.ContactName != nil {
		lead.ContactName = *in.ContactName
	}
	if in.Email != nil {
		lead.Email = *in.Email
	}
	if in.Phone != nil {
		lead.Phone = *in.Phone
	}
	if in.Status != nil {
		lead.Status = *in.Status
	}
	if in.Tags != nil {
		lead.Tags = entity.NormalizeTags(*in.Tags)
	}
	if in.Notes != nil {
		lead.Notes = *in.Notes
	}
	if in.Value != nil {
		lead.Value = *in.Value
	}
	if in.Priority != nil {
		lead.Priority = *in.Priority
	}
	if in.Source != nil {
		lead.Source = *in.Source
	}
	if in.AssignedTo != nil {
		lead.AssignedTo = *in.AssignedTo
	}
	if in.NextFollowUp != nil {
		lead.NextFollowUp = utcPtr(in.NextFollowUp)
		lead.FollowUpNotifiedAt = nil
	}
	if in.ExpectedCloseDate != nil {
		lead.ExpectedCloseDate = utcPtr(in.ExpectedCloseDate)
	}
}
