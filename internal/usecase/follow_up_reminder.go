package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

// FollowUpReminderUseCase transforma follow-ups vencidos em uma notificação
// follow_up_due para o responsável (assigned_to, ou quem criou o lead).
type FollowUpReminderUseCase struct {
	Leads    entity.LeadRepositoryInterface
	Notifier *Notifier
}

func NewFollowUpReminderUseCase(leads entity.LeadRepositoryInterface, notifier *Notifier) *FollowUpReminderUseCase {
	return &FollowUpReminderUseCase{Leads: leads, Notifier: notifier}
}

// Execute devolve quantos leads foram notificados.
func (uc *FollowUpReminderUseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	leads, err := uc.Leads.ListFollowUpsDue(ctx, now)
	if err != nil {
		return 0, translate(err, "leads")
	}

	log := logger.FromContext(ctx)
	notified := 0
	for _, lead := range leads {
		owner := lead.AssignedTo
		if owner == "" {
			owner = lead.CreatedBy
		}
		if owner == "" {
			continue
		}
		if err := uc.Notifier.FollowUpDue(ctx, owner, lead); err != nil {
			log.Warn("falha ao notificar follow-up", "lead_id", lead.ID, "error", err)
			continue
		}
		if err := uc.Leads.MarkFollowUpNotified(ctx, lead.ID, now); err != nil {
			log.Warn("falha ao marcar follow-up como avisado", "lead_id", lead.ID, "error", err)
			continue
		}
		notified++
	}
	return notified, nil
}
