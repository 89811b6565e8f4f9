package middleware

import (
	"context"

	"github.com/feen1e/recipe-app-backend/internal/identity"
	"github.com/feen1e/recipe-app-backend/pkg/authz"
	"github.com/feen1e/recipe-app-backend/pkg/enums"
	"github.com/google/uuid"
)

type contextKey string

const ctxCaller contextKey = "caller"

// CallerFromContext returns the resolved caller identity, if any.
func CallerFromContext(ctx context.Context) (identity.Caller, bool) {
	if ctx == nil {
		return identity.Caller{}, false
	}
	if v, ok := ctx.Value(ctxCaller).(identity.Caller); ok {
		return v, true
	}
	return identity.Caller{}, false
}

// ActorFromContext projects the caller into the authorization actor shape.
func ActorFromContext(ctx context.Context) authz.Actor {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return authz.Actor{}
	}
	return authz.Actor{ID: caller.ID, Role: caller.Role}
}

// UserIDFromContext returns the caller's id or uuid.Nil.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return uuid.Nil
	}
	return caller.ID
}

// RoleFromContext returns the caller's role or the empty role.
func RoleFromContext(ctx context.Context) enums.UserRole {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return ""
	}
	return caller.Role
}

// WithCaller injects a resolved identity into the context.
func WithCaller(ctx context.Context, caller identity.Caller) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCaller, caller)
}
