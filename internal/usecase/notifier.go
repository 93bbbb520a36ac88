package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

// Notifier cria as notificações in-app dos eventos de lead respeitando as
// preferências do destinatário. Falhas só vão para o log.
type Notifier struct {
	Repo     entity.NotificationRepositoryInterface
	Settings entity.NotificationSettingsRepositoryInterface
}

func NewNotifier(repo entity.NotificationRepositoryInterface, settings entity.NotificationSettingsRepositoryInterface) *Notifier {
	return &Notifier{Repo: repo, Settings: settings}
}

func (n *Notifier) LeadCreated(ctx context.Context, userID string, lead *entity.Lead) {
	if n == nil {
		return
	}
	n.create(ctx, entity.NewNotification(userID, entity.NotificationLeadCreated,
		"Novo Lead Criado",
		fmt.Sprintf("Lead '%s' foi criado com valor de R$ %.2f", lead.Title, lead.Value),
		entity.NotificationPriorityMedium, lead.ID))

	if lead.Value > entity.HighValueThreshold {
		n.create(ctx, entity.NewNotification(userID, entity.NotificationHighValueLead,
			"Lead de Alto Valor!",
			fmt.Sprintf("Lead '%s' tem valor alto: R$ %.2f", lead.Title, lead.Value),
			entity.NotificationPriorityHigh, lead.ID))
	}
}

func (n *Notifier) StatusChanged(ctx context.Context, userID string, lead *entity.Lead, old entity.LeadStatus) {
	if n == nil {
		return
	}
	n.create(ctx, entity.NewNotification(userID, entity.NotificationLeadStatusChanged,
		"Status do Lead Alterado",
		fmt.Sprintf("Lead '%s' mudou de '%s' para '%s'", lead.Title, old, lead.Status),
		entity.NotificationPriorityMedium, lead.ID))

	switch lead.Status {
	case entity.StatusWon:
		n.create(ctx, entity.NewNotification(userID, entity.NotificationDealWon,
			"Negócio Fechado!",
			fmt.Sprintf("Parabéns! Lead '%s' foi fechado com sucesso: R$ %.2f", lead.Title, lead.Value),
			entity.NotificationPriorityHigh, lead.ID))
	case entity.StatusLost:
		n.create(ctx, entity.NewNotification(userID, entity.NotificationDealLost,
			"Negócio Perdido",
			fmt.Sprintf("Lead '%s' foi marcado como perdido", lead.Title),
			entity.NotificationPriorityMedium, lead.ID))
	}
}

// Assigned avisa o novo responsável; não notifica quem atribuiu a si mesmo.
func (n *Notifier) Assigned(ctx context.Context, actorID string, lead *entity.Lead) {
	if n == nil || lead.AssignedTo == "" || lead.AssignedTo == actorID {
		return
	}
	n.create(ctx, entity.NewNotification(lead.AssignedTo, entity.NotificationLeadAssigned,
		"Lead Atribuído a Você",
		fmt.Sprintf("Lead '%s' foi atribuído a você", lead.Title),
		entity.NotificationPriorityMedium, lead.ID))
}

// FollowUpDue devolve nil sem gravar nada quando o usuário desligou o aviso.
func (n *Notifier) FollowUpDue(ctx context.Context, userID string, lead *entity.Lead) error {
	if n == nil || !n.allows(ctx, userID, entity.NotificationFollowUpDue) {
		return nil
	}
	return n.Repo.Create(ctx, entity.NewNotification(userID, entity.NotificationFollowUpDue,
		"Follow-up Pendente",
		fmt.Sprintf("Hora de retomar o contato com o lead '%s'", lead.Title),
		entity.NotificationPriorityHigh, lead.ID))
}

// allows usa os padrões quando não há preferência salva ou a leitura falha.
func (n *Notifier) allows(ctx context.Context, userID string, typ entity.NotificationType) bool {
	if n.Settings == nil {
		return true
	}
	settings, err := n.Settings.FindByUser(ctx, userID)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.DefaultNotificationSettings(userID).Allows(typ)
	}
	if err != nil {
		logger.FromContext(ctx).Warn("falha ao ler preferências de notificação", "user_id", userID, "error", err)
		return true
	}
	return settings.Allows(typ)
}

func (n *Notifier) create(ctx context.Context, notification *entity.Notification) {
	if !n.allows(ctx, notification.UserID, notification.Type) {
		return
	}
	if err := n.Repo.Create(ctx, notification); err != nil {
		logger.FromContext(ctx).Warn("falha ao criar notificação",
			"type", notification.Type, "lead_id", notification.LeadID, "error", err)
	}
}

// publish envia o evento para os webhooks; erro nunca derruba o request.
func publish(ctx context.Context, events EventPublisher, name entity.WebhookEvent, userID string, data any) {
	if events == nil {
		return
	}
	event, err := entity.NewEvent(name, userID, data)
	if err == nil {
		err = events.Publish(ctx, event)
	}
	if err != nil {
		logger.FromContext(ctx).Warn("falha ao publicar evento", "event", name, "error", err)
	}
}
