package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newAuth(t *testing.T) (*usecase.AuthUseCase, *database.DB, *MockTokenIssuer, *MockEmailService, *MockEventPublisher) {
	t.Helper()
	db := newTestDB(t)
	tokens := new(MockTokenIssuer)
	mailer := new(MockEmailService)
	events := new(MockEventPublisher)
	events.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	uc := usecase.NewAuthUseCase(database.NewUserRepository(db), plainHasher{}, tokens, events, mailer)
	return uc, db, tokens, mailer, events
}

func TestRegister(t *testing.T) {
	uc, _, tokens, mailer, events := newAuth(t)
	expires := time.Now().Add(time.Hour)
	tokens.On("Issue", mock.Anything).Return("token-123", expires, nil)

	sent := make(chan struct{})
	mailer.On("SendWelcome", "ana@ligue.crm", "Ana").Run(func(mock.Arguments) { close(sent) }).Return(nil).Once()

	out, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "Ana@Ligue.CRM",
		Name:     "Ana",
		Password: "segredo1",
	})
	require.NoError(t, err)
	assert.Equal(t, "token-123", out.AccessToken)
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, "ana@ligue.crm", out.User.Email)
	assert.Equal(t, entity.RoleUser, out.User.Role)
	assert.Equal(t, "hashed:segredo1", out.User.PasswordHash)
	assert.Equal(t, []entity.WebhookEvent{entity.EventUserRegistered}, events.Names())

	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("email de boas-vindas não foi enviado")
	}
	mailer.AssertExpectations(t)

	t.Run("email duplicado", func(t *testing.T) {
		_, err := uc.Register(context.Background(), usecase.RegisterInput{
			Email: "ana@ligue.crm", Name: "Outra Ana", Password: "segredo2",
		})
		assert.ErrorIs(t, err, usecase.ErrEmailTaken)
	})

	t.Run("validação", func(t *testing.T) {
		_, err := uc.Register(context.Background(), usecase.RegisterInput{Email: "x", Name: "", Password: "1"})
		de, ok := err.(*usecase.DomainError)
		require.True(t, ok)
		assert.Equal(t, usecase.CodeValidation, de.Code)
		assert.Contains(t, de.Message, "password")
	})
}

func TestLogin(t *testing.T) {
	uc, db, tokens, mailer, _ := newAuth(t)
	tokens.On("Issue", mock.Anything).Return("tok", time.Now().Add(time.Hour), nil)
	mailer.On("SendWelcome", mock.Anything, mock.Anything).Return(nil).Maybe()

	reg, err := uc.Register(context.Background(), usecase.RegisterInput{Email: "bob@ligue.crm", Name: "Bob", Password: "123456"})
	require.NoError(t, err)

	t.Run("sucesso", func(t *testing.T) {
		out, err := uc.Login(context.Background(), usecase.LoginInput{Email: "BOB@ligue.crm", Password: "123456"})
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, out.User.ID)
	})

	t.Run("senha errada e email desconhecido têm a mesma resposta", func(t *testing.T) {
		_, errPass := uc.Login(context.Background(), usecase.LoginInput{Email: "bob@ligue.crm", Password: "errada"})
		_, errMail := uc.Login(context.Background(), usecase.LoginInput{Email: "ninguem@ligue.crm", Password: "123456"})
		assert.ErrorIs(t, errPass, usecase.ErrUnauthorized)
		assert.Equal(t, errPass.Error(), errMail.Error())
	})

	t.Run("conta desativada", func(t *testing.T) {
		_, err := db.ExecContext(context.Background(), `UPDATE users SET is_active = ? WHERE id = ?`, false, reg.User.ID)
		require.NoError(t, err)

		_, err = uc.Login(context.Background(), usecase.LoginInput{Email: "bob@ligue.crm", Password: "123456"})
		assert.ErrorIs(t, err, usecase.ErrUnauthorized)
		assert.Contains(t, err.Error(), "deactivated")
	})
}

func TestMeAndEnsureUser(t *testing.T) {
	uc, _, _, _, _ := newAuth(t)
	ctx := context.Background()

	user, created, err := uc.EnsureUser(ctx, usecase.RegisterInput{
		Email: "admin@ligue.crm", Name: "Admin", Password: "admin123", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := uc.EnsureUser(ctx, usecase.RegisterInput{Email: "admin@ligue.crm", Name: "Admin", Password: "admin123"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)

	me, err := uc.Me(usecase.WithPrincipal(ctx, usecase.Principal{UserID: user.ID, Role: entity.RoleAdmin}))
	require.NoError(t, err)
	assert.Equal(t, "Admin", me.Name)

	_, err = uc.Me(usecase.WithPrincipal(ctx, usecase.Principal{UserID: "apagado"}))
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)

	_, err = uc.Me(ctx)
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)

	users, err := uc.ListUsers(usecase.WithPrincipal(ctx, usecase.Principal{UserID: user.ID}))
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
