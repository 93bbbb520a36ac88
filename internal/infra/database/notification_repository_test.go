package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestNotificationRepository_ReadFlow(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewNotificationRepository(db)

	n1 := entity.NewNotification("u1", entity.NotificationLeadCreated, "Novo lead", "Acme", entity.NotificationPriorityMedium, "l1")
	n2 := entity.NewNotification("u1", entity.NotificationDealWon, "Ganho", "Acme", entity.NotificationPriorityHigh, "l1")
	other := entity.NewNotification("u2", entity.NotificationDealWon, "Ganho", "Acme", entity.NotificationPriorityHigh, "l1")
	for _, n := range []*entity.Notification{n1, n2, other} {
		require.NoError(t, repo.Create(ctx, n))
	}

	total, unread, err := repo.Count(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, 2, unread)

	require.NoError(t, repo.MarkRead(ctx, "u1", n1.ID, entity.Now()))
	list, err := repo.List(ctx, "u1", entity.NotificationFilter{UnreadOnly: true, Limit: 50})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, n2.ID, list[0].ID)

	require.ErrorIs(t, repo.MarkRead(ctx, "u2", n1.ID, entity.Now()), entity.ErrNotFound)

	require.NoError(t, repo.MarkAllRead(ctx, "u1", entity.Now()))
	_, unread, err = repo.Count(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, unread)

	require.NoError(t, repo.Delete(ctx, "u1", n1.ID))
	list, err = repo.List(ctx, "u1", entity.NotificationFilter{Limit: 50})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "/kanban#l1", list[0].ActionURL)
}
