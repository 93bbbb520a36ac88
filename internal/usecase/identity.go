package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Principal é o usuário autenticado do request. O handler monta a partir do JWT
// e os usecases nunca leem headers ou tokens diretamente.
type Principal struct {
	UserID string
	Email  string
	Role   entity.Role
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.UserID != ""
}

func requirePrincipal(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return Principal{}, ErrUnauthorized
	}
	return p, nil
}
