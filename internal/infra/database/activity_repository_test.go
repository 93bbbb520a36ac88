package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestActivityRepository_AppendList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	a1 := entity.NewActivity("l1", "u1", entity.ActivityCreated, "Lead criado")
	a2 := entity.NewActivity("l1", "u1", entity.ActivityMoved, "novo -> proposta")
	a2.CreatedAt = a1.CreatedAt.Add(time.Second)
	a3 := entity.NewActivity("l2", "u1", entity.ActivityCreated, "Lead criado")
	a3.CreatedAt = a1.CreatedAt.Add(2 * time.Second)
	for _, a := range []*entity.Activity{a1, a2, a3} {
		require.NoError(t, repo.Append(ctx, a))
	}

	byLead, err := repo.ListByLead(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, byLead, 2)
	require.Equal(t, entity.ActivityMoved, byLead[0].Kind)

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, a3.ID, recent[0].ID)
	require.Equal(t, a2.ID, recent[1].ID)
}
