package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

type RegisterInput struct {
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     entity.Role `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthOutput struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *entity.User `json:"user"`
}

type AuthUseCase struct {
	Users  entity.UserRepositoryInterface
	Hasher PasswordHasher
	Tokens TokenIssuer
	Events EventPublisher
	Mailer EmailService
}

func NewAuthUseCase(users entity.UserRepositoryInterface, hasher PasswordHasher, tokens TokenIssuer, events EventPublisher, mailer EmailService) *AuthUseCase {
	return &AuthUseCase{Users: users, Hasher: hasher, Tokens: tokens, Events: events, Mailer: mailer}
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	if err := ValidateRegisterInput(input).asError(); err != nil {
		return nil, err
	}
	user, err := uc.createUser(ctx, input)
	if err != nil {
		return nil, err
	}

	out, err := uc.issue(user)
	if err != nil {
		return nil, err
	}

	publish(ctx, uc.Events, entity.EventUserRegistered, user.ID, map[string]any{
		"user":              user,
		"registration_date": user.CreatedAt,
	})

	if uc.Mailer != nil {
		log := logger.FromContext(ctx)
		go func() {
			if err := uc.Mailer.SendWelcome(user.Email, user.Name); err != nil {
				log.Warn("falha ao enviar email de boas-vindas", "user_id", user.ID, "error", err)
			}
		}()
	}
	return out, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	invalid := NewDomainError(CodeUnauthorized, "invalid credentials")

	user, err := uc.Users.FindByEmail(ctx, input.Email)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, translate(err, "user")
	}
	if err := uc.Hasher.Compare(user.PasswordHash, input.Password); err != nil {
		return nil, invalid
	}
	if !user.Active {
		return nil, NewDomainError(CodeUnauthorized, "account deactivated")
	}
	return uc.issue(user)
}

func (uc *AuthUseCase) Me(ctx context.Context) (*entity.User, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	user, err := uc.Users.FindByID(ctx, principal.UserID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

func (uc *AuthUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	users, err := uc.Users.ListActive(ctx)
	if err != nil {
		return nil, translate(err, "users")
	}
	return users, nil
}

// EnsureUser cria o usuário se o email ainda não existir. Usado pelo comando seed.
func (uc *AuthUseCase) EnsureUser(ctx context.Context, input RegisterInput) (*entity.User, bool, error) {
	existing, err := uc.Users.FindByEmail(ctx, input.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return nil, false, translate(err, "user")
	}
	if err := ValidateRegisterInput(input).asError(); err != nil {
		return nil, false, err
	}
	user, err := uc.createUser(ctx, input)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (uc *AuthUseCase) createUser(ctx context.Context, input RegisterInput) (*entity.User, error) {
	hash, err := uc.Hasher.Hash(input.Password)
	if err != nil {
		return nil, &TechnicalError{Code: "HASH_ERROR", Message: "failed to hash password", Err: err}
	}
	user, err := entity.NewUser(input.Email, input.Name, hash, input.Role)
	if err != nil {
		return nil, translate(err, "user")
	}
	if err := uc.Users.Create(ctx, user); err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

func (uc *AuthUseCase) issue(user *entity.User) (*AuthOutput, error) {
	token, expiresAt, err := uc.Tokens.Issue(user)
	if err != nil {
		return nil, &TechnicalError{Code: "TOKEN_ERROR", Message: "failed to issue token", Err: err}
	}
	return &AuthOutput{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}
