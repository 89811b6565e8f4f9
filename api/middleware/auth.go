package middleware

import (
	"net/http"
	"strings"

	"github.com/feen1e/recipe-app-backend/api/responses"
	"github.com/feen1e/recipe-app-backend/internal/identity"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/feen1e/recipe-app-backend/pkg/logger"
)

// OptionalAuth resolves a bearer token when one is present but lets the
// request through anonymously otherwise. Invalid tokens are ignored rather
// than rejected; routes using this must tolerate a missing caller.
func OptionalAuth(resolver identity.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			caller, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithCaller(r.Context(), caller)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    caller.ID.String(),
					"actor_role": string(caller.Role),
				})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

// Auth validates a bearer token, resolves the caller against the user store
// and seeds the request context with the identity.
func Auth(resolver identity.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			caller, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithCaller(r.Context(), caller)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    caller.ID.String(),
					"actor_role": string(caller.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
