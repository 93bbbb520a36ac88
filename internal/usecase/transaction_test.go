package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func TestTransaction_RollbackInReverseOrder(t *testing.T) {
	var calls []string
	step := func(name string, err error) func(context.Context) error {
		return func(context.Context) error {
			calls = append(calls, name)
			return err
		}
	}

	txn := usecase.NewTransaction()
	txn.AddOperation("a", step("a", nil))
	txn.AddCompensation("undo_a", step("undo_a", nil))
	txn.AddOperation("b", step("b", nil))
	txn.AddOperation("c", step("c", nil))
	txn.AddCompensation("undo_c", step("undo_c", errors.New("falhou também")))
	txn.AddOperation("d", step("d", errors.New("boom")))
	txn.AddCompensation("undo_d", step("undo_d", nil))

	err := txn.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation 'd' failed")

	// d falhou: desfaz c e a; b não tem compensação e d nunca rodou
	assert.Equal(t, []string{"a", "b", "c", "d", "undo_c", "undo_a"}, calls)
}

func TestTransaction_Success(t *testing.T) {
	ran := 0
	txn := usecase.NewTransaction()
	txn.AddCompensation("sem operação", func(context.Context) error { t.Fatal("não deveria rodar"); return nil })
	txn.AddOperation("ok", func(context.Context) error { ran++; return nil })
	require.NoError(t, txn.Execute(context.Background()))
	assert.Equal(t, 1, ran)
}

func TestCreateLead_ActivityFailureRemovesLead(t *testing.T) {
	h := newHarness(t)
	activities := new(MockActivityRepository)
	activities.On("Append", mock.Anything, mock.Anything).Return(errors.New("histórico indisponível"))

	uc := usecase.NewCreateLeadUseCase(h.leads, usecase.NewActivityRecorder(activities), nil, h.events, nil)
	_, err := uc.Execute(asUser(entity.RoleUser), usecase.LeadInput{Title: "Órfão"})
	require.Error(t, err)
	assert.True(t, usecase.IsTechnicalError(err))

	leads, err := h.leads.List(context.Background(), entity.LeadFilter{})
	require.NoError(t, err)
	assert.Empty(t, leads)
	assert.Empty(t, h.events.Names())
}

func TestActivityRecorder_RecentClamp(t *testing.T) {
	repo := new(MockActivityRepository)
	repo.On("ListRecent", mock.Anything, 10).Return([]*entity.Activity{}, nil).Twice()
	repo.On("ListRecent", mock.Anything, 100).Return([]*entity.Activity{}, nil).Once()
	repo.On("ListRecent", mock.Anything, 25).Return([]*entity.Activity{}, nil).Once()

	recorder := usecase.NewActivityRecorder(repo)
	for _, limit := range []int{0, -3, 5000, 25} {
		_, err := recorder.Recent(context.Background(), limit)
		require.NoError(t, err)
	}
	repo.AssertExpectations(t)
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := usecase.NewDomainError(usecase.CodeNotFound, "lead %s not found", "42")
	assert.ErrorIs(t, err, usecase.ErrNotFound)
	assert.NotErrorIs(t, err, usecase.ErrConflict)
	assert.Equal(t, "lead 42 not found", err.Error())
	assert.True(t, usecase.IsDomainError(err))

	tech := &usecase.TechnicalError{Code: "DATABASE_ERROR", Message: "failed", Err: context.Canceled}
	assert.ErrorIs(t, tech, context.Canceled)
	assert.False(t, usecase.IsDomainError(tech))
}
