package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/infra/auth"
	"github.com/xavierca1/ligue-crm/internal/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// TokenParser é satisfeito por *auth.TokenManager.
type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// Authenticate exige "Authorization: Bearer <jwt>" e coloca o Principal no context.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, usecase.CodeUnauthorized, "missing bearer token")
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				logger.FromContext(r.Context()).Debug("token rejeitado", "error", err)
				writeError(w, http.StatusUnauthorized, usecase.CodeUnauthorized, "invalid or expired token")
				return
			}

			principal := claims.Principal()
			ctx := usecase.WithPrincipal(r.Context(), principal)
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("user_id", principal.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: code, Message: message})
}
