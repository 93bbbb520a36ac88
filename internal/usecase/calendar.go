package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const maxCalendarEvents = 1000

// CalendarUseCase guarda compromissos locais; não sincroniza com agendas externas.
type CalendarUseCase struct {
	Events     entity.CalendarEventRepositoryInterface
	Leads      entity.LeadRepositoryInterface
	Activities *ActivityRecorder
}

func NewCalendarUseCase(events entity.CalendarEventRepositoryInterface, leads entity.LeadRepositoryInterface, activities *ActivityRecorder) *CalendarUseCase {
	return &CalendarUseCase{Events: events, Leads: leads, Activities: activities}
}

func (uc *CalendarUseCase) Create(ctx context.Context, input CalendarEventInput) (*entity.CalendarEvent, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if input.LeadID == "" {
		return nil, NewDomainError(CodeValidation, "lead_id is required")
	}

	event, err := entity.NewCalendarEvent(input.LeadID, principal.UserID, input.Title, input.Description,
		input.StartTime, input.EndTime, input.EventType)
	if err != nil {
		return nil, translate(err, "calendar event")
	}
	if _, err := uc.Leads.FindByID(ctx, input.LeadID); err != nil {
		return nil, translate(err, "lead")
	}

	if err := uc.Events.Create(ctx, event); err != nil {
		return nil, translate(err, "calendar event")
	}
	details := fmt.Sprintf("Calendar event '%s' scheduled for %s", event.Title, event.StartTime.Format("2006-01-02 15:04"))
	if err := uc.Activities.Record(ctx, event.LeadID, principal.UserID, entity.ActivityEventCreated, details); err != nil {
		return nil, err
	}
	return event, nil
}

func (uc *CalendarUseCase) List(ctx context.Context) ([]*entity.CalendarEvent, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	events, err := uc.Events.ListByUser(ctx, principal.UserID, maxCalendarEvents)
	if err != nil {
		return nil, translate(err, "calendar events")
	}
	return events, nil
}
