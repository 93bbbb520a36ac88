package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

type NotificationCount struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
}

type NotificationUseCase struct {
	Notifications entity.NotificationRepositoryInterface
}

func NewNotificationUseCase(repo entity.NotificationRepositoryInterface) *NotificationUseCase {
	return &NotificationUseCase{Notifications: repo}
}

func (uc *NotificationUseCase) List(ctx context.Context, filter entity.NotificationFilter) ([]*entity.Notification, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultNotificationLimit
	}
	if filter.Limit > maxNotificationLimit {
		filter.Limit = maxNotificationLimit
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	list, err := uc.Notifications.List(ctx, principal.UserID, filter)
	if err != nil {
		return nil, translate(err, "notifications")
	}
	return list, nil
}

func (uc *NotificationUseCase) Count(ctx context.Context) (*NotificationCount, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	total, unread, err := uc.Notifications.Count(ctx, principal.UserID)
	if err != nil {
		return nil, translate(err, "notifications")
	}
	return &NotificationCount{Total: total, Unread: unread}, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, id string) error {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}
	return translate(uc.Notifications.MarkRead(ctx, principal.UserID, id, entity.Now()), "notification")
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context) error {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}
	return translate(uc.Notifications.MarkAllRead(ctx, principal.UserID, entity.Now()), "notifications")
}

func (uc *NotificationUseCase) Delete(ctx context.Context, id string) error {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}
	return translate(uc.Notifications.Delete(ctx, principal.UserID, id), "notification")
}

type NotificationSettingsUseCase struct {
	Settings entity.NotificationSettingsRepositoryInterface
}

func NewNotificationSettingsUseCase(repo entity.NotificationSettingsRepositoryInterface) *NotificationSettingsUseCase {
	return &NotificationSettingsUseCase{Settings: repo}
}

// Get devolve os padrões sem gravar quando o usuário ainda não salvou nada.
func (uc *NotificationSettingsUseCase) Get(ctx context.Context) (*entity.NotificationSettings, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return uc.current(ctx, principal.UserID)
}

func (uc *NotificationSettingsUseCase) Update(ctx context.Context, input NotificationSettingsInput) (*entity.NotificationSettings, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := uc.current(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	setBool(&settings.LeadCreated, input.LeadCreated)
	setBool(&settings.LeadStatusChanged, input.LeadStatusChanged)
	setBool(&settings.LeadAssigned, input.LeadAssigned)
	setBool(&settings.FollowUpDue, input.FollowUpDue)
	setBool(&settings.HighValueLeads, input.HighValueLeads)
	setBool(&settings.DealClosed, input.DealClosed)
	setBool(&settings.EmailNotifications, input.EmailNotifications)
	setBool(&settings.PushNotifications, input.PushNotifications)
	settings.UpdatedAt = entity.Now()

	if err := uc.Settings.Upsert(ctx, settings); err != nil {
		return nil, translate(err, "notification settings")
	}
	return settings, nil
}

func (uc *NotificationSettingsUseCase) current(ctx context.Context, userID string) (*entity.NotificationSettings, error) {
	settings, err := uc.Settings.FindByUser(ctx, userID)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.DefaultNotificationSettings(userID), nil
	}
	if err != nil {
		return nil, translate(err, "notification settings")
	}
	return settings, nil
}

func setBool(dst, v *bool) {
	if v != nil {
		*dst = *v
	}
}
