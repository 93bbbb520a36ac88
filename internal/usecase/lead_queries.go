package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadQueryUseCase struct {
	Leads      entity.LeadRepositoryInterface
	Activities *ActivityRecorder
}

func NewLeadQueryUseCase(leads entity.LeadRepositoryInterface, activities *ActivityRecorder) *LeadQueryUseCase {
	return &LeadQueryUseCase{Leads: leads, Activities: activities}
}

func (uc *LeadQueryUseCase) Get(ctx context.Context, id string) (*entity.Lead, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "lead")
	}
	return lead, nil
}

func (uc *LeadQueryUseCase) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, NewDomainError(CodeInvalidStatus, "invalid status %q", filter.Status)
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, NewDomainError(CodeValidation, "%s", entity.ErrInvalidPriority.Error())
	}
	leads, err := uc.Leads.List(ctx, filter)
	if err != nil {
		return nil, translate(err, "leads")
	}
	return leads, nil
}

// History devolve o histórico mesmo que o lead já tenha sido apagado.
func (uc *LeadQueryUseCase) History(ctx context.Context, leadID string) ([]*entity.Activity, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	return uc.Activities.ForLead(ctx, leadID)
}
