package middleware

import (
	"context"
	"net/http"
	"strings"

	"sortir/internal/account"
	"sortir/internal/domain"
	"sortir/internal/transport/http/response"
)

type ctxKey string

const (
	ctxUserID ctxKey = "user_id"
	ctxRole   ctxKey = "role"
	ctxToken  ctxKey = "token"
)

// Authenticator resolves a bearer token to its claims, rejecting revoked tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (account.Claims, error)
}

type Auth struct {
	authenticator Authenticator
}

func NewAuth(authenticator Authenticator) *Auth {
	return &Auth{authenticator: authenticator}
}

// Require rejects requests without a valid, non-revoked bearer token.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.Err(w, r, domain.ErrUnauthorized("missing bearer token"))
			return
		}

		claims, err := a.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			response.Err(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		ctx = context.WithValue(ctx, ctxToken, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must run after Require.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Role(r) != domain.RoleAdmin {
			response.Err(w, r, domain.ErrForbidden("admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(h[7:])
	return token, token != ""
}

func UserID(r *http.Request) string {
	v, _ := r.Context().Value(ctxUserID).(string)
	return v
}

func Role(r *http.Request) string {
	v, _ := r.Context().Value(ctxRole).(string)
	return v
}

// Token returns the raw bearer token of an authenticated request.
func Token(r *http.Request) string {
	v, _ := r.Context().Value(ctxToken).(string)
	return v
}
