package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func TestMoveLead_ScheduleFollowUpRule(t *testing.T) {
	h := newHarness(t)
	ctx := asUser(entity.RoleUser)

	lead := h.createLead(t, "Acme deal", entity.StatusNew, 1000)
	h.createRule(t, "Follow-up em 3 dias", entity.StatusQualified, entity.ActionScheduleFollowUp,
		map[string]string{"days": "3"})

	before := time.Now().UTC()
	out, err := h.move.Execute(ctx, usecase.MoveLeadInput{
		LeadID:    lead.ID,
		NewStatus: entity.StatusQualified,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusNew, out.OldStatus)
	assert.Equal(t, entity.StatusQualified, out.NewStatus)
	assert.False(t, out.Unchanged)
	require.Len(t, out.Automation, 1)
	assert.True(t, out.Automation[0].OK)

	stored, err := h.leads.FindByID(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusQualified, stored.Status)
	require.NotNil(t, stored.NextFollowUp)
	assert.WithinDuration(t, before.Add(72*time.Hour), *stored.NextFollowUp, time.Minute)

	// o lead devolvido já reflete o efeito da automação
	require.NotNil(t, out.Lead.NextFollowUp)

	assert.Len(t, h.activitiesOf(t, lead.ID, entity.ActivityAutomationTriggered), 1)
	moved := h.activitiesOf(t, lead.ID, entity.ActivityMoved)
	require.Len(t, moved, 1)
	assert.Equal(t, "novo -> qualificado", moved[0].Details)
	assert.Equal(t, "user-user", moved[0].UserID)

	assert.Equal(t, 1, h.metrics.moves)
	assert.Equal(t, []bool{true}, h.metrics.actions[entity.ActionScheduleFollowUp])
	assert.Contains(t, h.events.Names(), entity.EventLeadStatusChanged)
}

func TestMoveLead_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := asUser(entity.RoleUser)

	t.Run("status inválido é rejeitado antes de buscar o lead", func(t *testing.T) {
		// lead inexistente: se buscasse primeiro, viria NOT_FOUND
		_, err := h.move.Execute(ctx, usecase.MoveLeadInput{LeadID: "nao-existe", NewStatus: "arquivado"})
		assert.ErrorIs(t, err, usecase.ErrInvalidStatus)
	})

	t.Run("lead inexistente", func(t *testing.T) {
		_, err := h.move.Execute(ctx, usecase.MoveLeadInput{LeadID: "nao-existe", NewStatus: entity.StatusWon})
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})

	t.Run("lead_id vazio", func(t *testing.T) {
		_, err := h.move.Execute(ctx, usecase.MoveLeadInput{NewStatus: entity.StatusWon})
		var de *usecase.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, usecase.CodeValidation, de.Code)
	})

	t.Run("posição negativa", func(t *testing.T) {
		lead := h.createLead(t, "Negativo", entity.StatusNew, 0)
		_, err := h.move.Execute(ctx, usecase.MoveLeadInput{LeadID: lead.ID, NewStatus: entity.StatusWon, NewPosition: -1})
		var de *usecase.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, usecase.CodeValidation, de.Code)
	})

	t.Run("sem usuário autenticado", func(t *testing.T) {
		_, err := h.move.Execute(context.Background(), usecase.MoveLeadInput{LeadID: "x", NewStatus: entity.StatusWon})
		assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	})
}

func TestMoveLead_PositionsStayDistinct(t *testing.T) {
	h := newHarness(t)
	ctx := asUser(entity.RoleUser)

	a := h.createLead(t, "Novo A", entity.StatusNew, 0)
	b := h.createLead(t, "Novo B", entity.StatusNew, 0)
	h.createLead(t, "Já qualificado", entity.StatusQualified, 0)

	for _, lead := range []*entity.Lead{a, b} {
		out, err := h.move.Execute(ctx, usecase.MoveLeadInput{LeadID: lead.ID, NewStatus: entity.StatusQualified})
		require.NoError(t, err)
		assert.Equal(t, 0, out.Lead.Position)
	}

	column, err := h.leads.ListByStatus(context.Background(), entity.StatusQualified)
	require.NoError(t, err)
	require.Len(t, column, 3)
	seen := map[int]bool{}
	for i, lead := range column {
		assert.False(t, seen[lead.Position], "posição %d repetida", lead.Position)
		seen[lead.Position] = true
		assert.Equal(t, i, lead.Position)
	}
	assert.Equal(t, b.ID, column[0].ID)
	assert.Equal(t, a.ID, column[1].ID)
}

func TestMoveLead_SameStatusIsNoOp(t *testing.T) {
	h := newHarness(t)
	ctx := asUser(entity.RoleUser)

	lead := h.createLead(t, "Parado", entity.StatusProposal, 10)
	h.createRule(t, "Tarefa", entity.StatusProposal, entity.ActionCreateTask, nil)

	out, err := h.move.Execute(ctx, usecase.MoveLeadInput{LeadID: lead.ID, NewStatus: entity.StatusProposal, NewPosition: 5})
	require.NoError(t, err)
	assert.True(t, out.Unchanged)
	assert.Empty(t, out.Automation)

	stored, err := h.leads.FindByID(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.Position, stored.Position)
	assert.True(t, lead.UpdatedAt.Equal(stored.UpdatedAt))
	assert.Empty(t, h.activitiesOf(t, lead.ID, entity.ActivityMoved))
	assert.Equal(t, 0, h.metrics.moves)
}

func TestMoveLead_OptimisticToken(t *testing.T) {
	h := newHarness(t)
	ctx := asUser(entity.RoleUser)
	lead := h.createLead(t, "Concorrido", entity.StatusNew, 10)

	stale := lead.UpdatedAt.Add(-time.Second)
	_, err := h.move.Execute(ctx, usecase.MoveLeadInput{
		LeadID:            lead.ID,
		NewStatus:         entity.StatusQualified,
		ExpectedUpdatedAt: &stale,
	})
	assert.ErrorIs(t, err, usecase.ErrConflict)

	current := lead.UpdatedAt
	out, err := h.move.Execute(ctx, usecase.MoveLeadInput{
		LeadID:            lead.ID,
		NewStatus:         entity.StatusQualified,
		ExpectedUpdatedAt: &current,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusQualified, out.Lead.Status)
}

func TestMoveLead_WonCreatesNotifications(t *testing.T) {
	h := newHarness(t)
	ctx := asUser(entity.RoleUser)
	lead := h.createLead(t, "Fechando", entity.StatusNegotiation, 2000)

	_, err := h.move.Execute(ctx, usecase.MoveLeadInput{LeadID: lead.ID, NewStatus: entity.StatusWon})
	require.NoError(t, err)

	list, err := h.notifications.List(context.Background(), "user-user", entity.NotificationFilter{Limit: 50})
	require.NoError(t, err)

	var types []entity.NotificationType
	for _, n := range list {
		types = append(types, n.Type)
	}
	assert.Contains(t, types, entity.NotificationLeadStatusChanged)
	assert.Contains(t, types, entity.NotificationDealWon)
}
