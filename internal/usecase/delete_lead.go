package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type DeleteLeadUseCase struct {
	Leads      entity.LeadRepositoryInterface
	Activities *ActivityRecorder
	Events     EventPublisher
}

func NewDeleteLeadUseCase(leads entity.LeadRepositoryInterface, activities *ActivityRecorder, events EventPublisher) *DeleteLeadUseCase {
	return &DeleteLeadUseCase{Leads: leads, Activities: activities, Events: events}
}

// Execute apaga o lead; o histórico de atividades é mantido.
func (uc *DeleteLeadUseCase) Execute(ctx context.Context, id string) error {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}

	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		return translate(err, "lead")
	}
	if err := uc.Leads.Delete(ctx, id); err != nil {
		return translate(err, "lead")
	}
	if err := uc.Activities.Record(ctx, id, principal.UserID, entity.ActivityDeleted, "Lead deleted"); err != nil {
		return err
	}

	publish(ctx, uc.Events, entity.EventLeadDeleted, principal.UserID, lead)
	return nil
}
