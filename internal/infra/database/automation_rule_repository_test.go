package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestAutomationRuleRepository_ListEnabledByTrigger_Order(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewAutomationRuleRepository(db)

	action, err := entity.ParseAction(entity.ActionScheduleFollowUp, map[string]string{"days": "3"})
	require.NoError(t, err)

	first, err := entity.NewAutomationRule("primeira", entity.StatusProposal, action, "u1")
	require.NoError(t, err)
	second, err := entity.NewAutomationRule("segunda", entity.StatusProposal, entity.Action{Kind: entity.ActionCreateTask, Task: &entity.TaskParams{}}, "u1")
	require.NoError(t, err)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	other, err := entity.NewAutomationRule("outra", entity.StatusWon, action, "u1")
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, other))

	rules, err := repo.ListEnabledByTrigger(ctx, entity.StatusProposal)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	require.Equal(t, first.ID, rules[0].ID)
	require.Equal(t, 3, rules[0].Action.FollowUp.Days)
	require.Equal(t, second.ID, rules[1].ID)
	require.NotNil(t, rules[1].Action.Task)

	require.NoError(t, repo.SetEnabled(ctx, first.ID, false))
	rules, err = repo.ListEnabledByTrigger(ctx, entity.StatusProposal)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.False(t, got.Enabled)

	mine, err := repo.ListByCreator(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 3)

	require.ErrorIs(t, repo.SetEnabled(ctx, "missing", true), entity.ErrNotFound)
}

func TestAutomationRuleRepository_StoredBadDaysDecodesLeniently(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewAutomationRuleRepository(db)

	_, err := db.ExecContext(ctx,
		`INSERT INTO automation_rules (id, name, trigger_status, action, action_params, is_active, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"r1", "quebrada", "proposta", "schedule_follow_up", `{"days":"abc"}`, true, "u1", entity.Now())
	require.NoError(t, err)

	rule, err := repo.FindByID(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, entity.ActionScheduleFollowUp, rule.Action.Kind)
	require.Equal(t, 0, rule.Action.FollowUp.Days)
}
