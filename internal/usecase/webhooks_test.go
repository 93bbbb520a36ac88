package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func TestWebhookUseCase(t *testing.T) {
	db := newTestDB(t)
	repo := database.NewWebhookRepository(db)
	sender := new(MockWebhookSender)
	uc := usecase.NewWebhookUseCase(repo, sender)

	owner := asUser(entity.RoleUser)
	stranger := asUser(entity.RoleManager)

	hook, err := uc.Create(owner, usecase.WebhookInput{
		Name:   "Zapier",
		URL:    "https://hooks.example.com/crm",
		Events: []entity.WebhookEvent{entity.EventLeadCreated, entity.EventLeadStatusChanged},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultWebhookRetryCount, hook.RetryCount)
	assert.Equal(t, entity.DefaultWebhookTimeout, hook.TimeoutSeconds)
	assert.NotEmpty(t, hook.Secret)

	t.Run("criação inválida", func(t *testing.T) {
		_, err := uc.Create(owner, usecase.WebhookInput{URL: "ftp://x", Events: []entity.WebhookEvent{entity.EventLeadCreated}})
		assert.Error(t, err)
		_, err = uc.Create(owner, usecase.WebhookInput{URL: "https://x.com", Events: []entity.WebhookEvent{"lead.exploded"}})
		assert.Error(t, err)
		_, err = uc.Create(owner, usecase.WebhookInput{URL: "https://x.com"})
		assert.Error(t, err)
	})

	t.Run("outro usuário não enxerga", func(t *testing.T) {
		_, err := uc.Get(stranger, hook.ID)
		assert.ErrorIs(t, err, usecase.ErrNotFound)
		assert.ErrorIs(t, uc.Delete(stranger, hook.ID), usecase.ErrNotFound)
		_, err = uc.Test(stranger, hook.ID)
		assert.ErrorIs(t, err, usecase.ErrNotFound)

		list, err := uc.List(stranger)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("update parcial", func(t *testing.T) {
		off := false
		updated, err := uc.Update(owner, usecase.UpdateWebhookInput{ID: hook.ID, Active: &off, TimeoutSeconds: ptr(10)})
		require.NoError(t, err)
		assert.False(t, updated.Active)
		assert.Equal(t, 10, updated.TimeoutSeconds)
		assert.Equal(t, "Zapier", updated.Name)

		_, err = uc.Update(owner, usecase.UpdateWebhookInput{ID: hook.ID, URL: ptr("nada")})
		var de *usecase.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, usecase.CodeValidation, de.Code)
	})

	t.Run("teste síncrono usa o sender", func(t *testing.T) {
		log := &entity.WebhookLog{WebhookID: hook.ID, Success: true, ResponseStatus: 200}
		sender.On("Send", mock.Anything, mock.MatchedBy(func(w *entity.Webhook) bool { return w.ID == hook.ID }),
			mock.MatchedBy(func(e *entity.Event) bool {
				var data map[string]any
				return e.Name == entity.EventLeadCreated &&
					json.Unmarshal(e.Data, &data) == nil && data["test"] == true
			})).Return(log, nil).Once()

		got, err := uc.Test(owner, hook.ID)
		require.NoError(t, err)
		assert.True(t, got.Success)
		sender.AssertExpectations(t)
	})

	t.Run("logs e remoção", func(t *testing.T) {
		require.NoError(t, repo.AppendLog(context.Background(), &entity.WebhookLog{
			ID: "log-1", WebhookID: hook.ID, Event: entity.EventLeadCreated, Payload: "{}", TriggeredAt: entity.Now(),
		}))
		logs, err := uc.Logs(owner, hook.ID, 0)
		require.NoError(t, err)
		assert.Len(t, logs, 1)

		require.NoError(t, uc.Delete(owner, hook.ID))
		_, err = uc.Get(owner, hook.ID)
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})
}
