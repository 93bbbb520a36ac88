package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

type CreateLeadUseCase struct {
	Leads      entity.LeadRepositoryInterface
	Activities *ActivityRecorder
	Automation *AutomationEngine
	Events     EventPublisher
	Notifier   *Notifier
}

func NewCreateLeadUseCase(
	leads entity.LeadRepositoryInterface,
	activities *ActivityRecorder,
	automation *AutomationEngine,
	events EventPublisher,
	notifier *Notifier,
) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Leads:      leads,
		Activities: activities,
		Automation: automation,
		Events:     events,
		Notifier:   notifier,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input LeadInput) (*entity.Lead, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	if input.Status != "" && !input.Status.Valid() {
		return nil, NewDomainError(CodeInvalidStatus, "invalid status %q", input.Status)
	}
	if err := ValidateLeadInput(input).asError(); err != nil {
		return nil, err
	}

	value := 0.0
	if input.Value != nil {
		value = *input.Value
	}
	lead, err := entity.NewLead(input.Title, input.Status, input.Priority, value, principal.UserID)
	if err != nil {
		return nil, translate(err, "lead")
	}
	lead.Company = input.Company
	lead.ContactName = input.ContactName
	lead.Email = input.Email
	lead.Phone = input.Phone
	lead.Tags = entity.NormalizeTags(input.Tags)
	lead.Notes = input.Notes
	lead.Source = input.Source
	lead.AssignedTo = input.AssignedTo
	lead.NextFollowUp = utcPtr(input.NextFollowUp)
	lead.ExpectedCloseDate = utcPtr(input.ExpectedCloseDate)

	last, ok, err := uc.Leads.MaxPosition(ctx, lead.Status)
	if err != nil {
		return nil, translate(err, "lead")
	}
	if ok {
		lead.Position = last + 1
	}

	txn := NewTransaction()
	txn.AddOperation("create_lead", func(ctx context.Context) error {
		return uc.Leads.Create(ctx, lead)
	})
	txn.AddCompensation("delete_lead", func(ctx context.Context) error {
		return uc.Leads.Delete(ctx, lead.ID)
	})
	txn.AddOperation("record_created", func(ctx context.Context) error {
		return uc.Activities.Record(ctx, lead.ID, principal.UserID, entity.ActivityCreated,
			fmt.Sprintf("Lead '%s' created", lead.Title))
	})
	if err := txn.Execute(ctx); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to persist lead", Err: err}
	}

	if uc.Automation != nil {
		if _, err := uc.Automation.Run(ctx, lead.ID, lead.Status, principal.UserID); err != nil {
			logger.FromContext(ctx).Error("automação falhou na criação do lead", "lead_id", lead.ID, "error", err)
		}
		if fresh, err := uc.Leads.FindByID(ctx, lead.ID); err == nil {
			lead = fresh
		}
	}

	publish(ctx, uc.Events, entity.EventLeadCreated, principal.UserID, lead)
	uc.Notifier.LeadCreated(ctx, principal.UserID, lead)
	uc.Notifier.Assigned(ctx, principal.UserID, lead)

	return lead, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
