package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func ptr[T any](v T) *T { return &v }

func TestCreateLead(t *testing.T) {
	h := newHarness(t)
	ctx := asUser(entity.RoleUser)

	t.Run("defaults e histórico", func(t *testing.T) {
		lead, err := h.create.Execute(ctx, usecase.LeadInput{
			Title: "  Globex  ",
			Tags:  []string{"b2b", "", "b2b", "saas"},
		})
		require.NoError(t, err)

		assert.Equal(t, "Globex", lead.Title)
		assert.Equal(t, entity.StatusNew, lead.Status)
		assert.Equal(t, entity.PriorityMedium, lead.Priority)
		assert.Equal(t, []string{"b2b", "saas"}, lead.Tags)
		assert.Equal(t, "user-user", lead.CreatedBy)

		created := h.activitiesOf(t, lead.ID, entity.ActivityCreated)
		require.Len(t, created, 1)
		assert.Equal(t, "Lead 'Globex' created", created[0].Details)
		assert.Contains(t, h.events.Names(), entity.EventLeadCreated)
	})

	t.Run("posição no fim da coluna", func(t *testing.T) {
		a := h.createLead(t, "A", entity.StatusProposal, 0)
		b := h.createLead(t, "B", entity.StatusProposal, 0)
		c := h.createLead(t, "C", entity.StatusNegotiation, 0)

		assert.Equal(t, 0, a.Position)
		assert.Equal(t, 1, b.Position)
		assert.Equal(t, 0, c.Position)
	})

	t.Run("validação", func(t *testing.T) {
		_, err := h.create.Execute(ctx, usecase.LeadInput{Title: " ", Value: ptr(-1.0)})
		var de *usecase.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, usecase.CodeValidation, de.Code)

		_, err = h.create.Execute(ctx, usecase.LeadInput{Title: "X", Status: "arquivado"})
		assert.ErrorIs(t, err, usecase.ErrInvalidStatus)
	})

	t.Run("alto valor gera notificação extra", func(t *testing.T) {
		lead := h.createLead(t, "Mega contrato", entity.StatusNew, 50000)

		list, err := h.notifications.List(context.Background(), "user-user", entity.NotificationFilter{Limit: 200})
		require.NoError(t, err)

		var kinds []entity.NotificationType
		for _, n := range list {
			if n.LeadID == lead.ID {
				kinds = append(kinds, n.Type)
			}
		}
		assert.ElementsMatch(t, []entity.NotificationType{
			entity.NotificationLeadCreated,
			entity.NotificationHighValueLead,
		}, kinds)
	})

	t.Run("regras do status inicial rodam", func(t *testing.T) {
		h.createRule(t, "Tarefa de boas-vindas", entity.StatusQualified, entity.ActionCreateTask,
			map[string]string{"task_description": "Ligar para o contato"})

		lead := h.createLead(t, "Direto qualificado", entity.StatusQualified, 0)

		tasks := h.activitiesOf(t, lead.ID, entity.ActivityTaskCreated)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Ligar para o contato", tasks[0].Details)
	})
}

func TestUpdateLead(t *testing.T) {
	h := newHarness(t)
	ctx := asUser(entity.RoleUser)

	t.Run("atualização parcial mantém o resto", func(t *testing.T) {
		lead := h.createLead(t, "Initech", entity.StatusNew, 100)

		updated, err := h.update.Execute(ctx, usecase.UpdateLeadInput{
			ID:    lead.ID,
			Notes: ptr("ligar segunda"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Initech", updated.Title)
		assert.Equal(t, "ligar segunda", updated.Notes)
		assert.Equal(t, 100.0, updated.Value)
		assert.Len(t, h.activitiesOf(t, lead.ID, entity.ActivityUpdated), 1)
		assert.Equal(t, 0, h.metrics.moves)
	})

	t.Run("mudança de status vai para o fim da coluna e dispara regras", func(t *testing.T) {
		h.createLead(t, "Já em negociação", entity.StatusNegotiation, 0)
		h.createRule(t, "Follow-up negociação", entity.StatusNegotiation, entity.ActionScheduleFollowUp,
			map[string]string{"days": "1"})
		lead := h.createLead(t, "Hooli", entity.StatusNew, 0)

		h.events.Calls = nil
		updated, err := h.update.Execute(ctx, usecase.UpdateLeadInput{
			ID:     lead.ID,
			Status: ptr(entity.StatusNegotiation),
		})
		require.NoError(t, err)
		assert.Equal(t, entity.StatusNegotiation, updated.Status)
		assert.Equal(t, 1, updated.Position)
		assert.NotNil(t, updated.NextFollowUp)
		assert.Equal(t, []entity.WebhookEvent{entity.EventLeadStatusChanged, entity.EventLeadUpdated}, h.events.Names())
	})

	t.Run("token desatualizado", func(t *testing.T) {
		lead := h.createLead(t, "Vandelay", entity.StatusNew, 0)
		stale := lead.UpdatedAt.Add(-1)
		_, err := h.update.Execute(ctx, usecase.UpdateLeadInput{
			ID:                lead.ID,
			Title:             ptr("Vandelay Industries"),
			ExpectedUpdatedAt: &stale,
		})
		assert.ErrorIs(t, err, usecase.ErrConflict)
	})

	t.Run("valor negativo", func(t *testing.T) {
		lead := h.createLead(t, "Soylent", entity.StatusNew, 0)
		_, err := h.update.Execute(ctx, usecase.UpdateLeadInput{ID: lead.ID, Value: ptr(-5.0)})
		var de *usecase.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, usecase.CodeValidation, de.Code)
	})
}

func TestDeleteLead_KeepsHistory(t *testing.T) {
	h := newHarness(t)
	ctx := asUser(entity.RoleUser)
	lead := h.createLead(t, "Temporário", entity.StatusNew, 0)

	require.NoError(t, h.remove.Execute(ctx, lead.ID))

	_, err := h.query.Get(ctx, lead.ID)
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	history, err := h.query.History(ctx, lead.ID)
	require.NoError(t, err)
	var kinds []entity.ActivityKind
	for _, a := range history {
		kinds = append(kinds, a.Kind)
	}
	assert.ElementsMatch(t, []entity.ActivityKind{entity.ActivityCreated, entity.ActivityDeleted}, kinds)

	board, err := h.kanban.Board(ctx)
	require.NoError(t, err)
	for _, col := range board {
		for _, l := range col.Leads {
			assert.NotEqual(t, lead.ID, l.ID, "lead removido ainda na coluna %s", col.Status)
		}
	}

	assert.ErrorIs(t, h.remove.Execute(ctx, lead.ID), usecase.ErrNotFound)
}

func TestListLeads_Filters(t *testing.T) {
	h := newHarness(t)
	ctx := asUser(entity.RoleUser)
	h.createLead(t, "Um", entity.StatusNew, 0)
	h.createLead(t, "Dois", entity.StatusWon, 0)

	leads, err := h.query.List(ctx, entity.LeadFilter{Status: entity.StatusWon})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Dois", leads[0].Title)

	_, err = h.query.List(ctx, entity.LeadFilter{Status: "x"})
	assert.ErrorIs(t, err, usecase.ErrInvalidStatus)
}

func TestKanbanBoard(t *testing.T) {
	h := newHarness(t)
	ctx := asUser(entity.RoleUser)

	first := h.createLead(t, "Primeiro", entity.StatusNew, 0)
	second := h.createLead(t, "Segundo", entity.StatusNew, 0)
	// coloca o segundo na frente
	pos, err := h.leads.MoveToPosition(context.Background(), second.ID, entity.StatusNew, 0, entity.Now())
	require.NoError(t, err)
	require.Equal(t, 0, pos)

	board, err := h.kanban.Board(ctx)
	require.NoError(t, err)
	require.Len(t, board, 6)

	var statuses []entity.LeadStatus
	for _, col := range board {
		statuses = append(statuses, col.Status)
		assert.NotNil(t, col.Leads)
		assert.NotEmpty(t, col.Title)
		assert.NotEmpty(t, col.Color)
	}
	assert.Equal(t, entity.PipelineStatuses, statuses)

	assert.Equal(t, "Novo", board[0].Title)
	assert.Equal(t, "#3B82F6", board[0].Color)
	require.Len(t, board[0].Leads, 2)
	assert.Equal(t, second.ID, board[0].Leads[0].ID)
	assert.Equal(t, first.ID, board[0].Leads[1].ID)
	assert.Empty(t, board[5].Leads)

	_, err = h.kanban.Board(context.Background())
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
}
