package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/feen1e/recipe-app-backend/internal/identity"
	"github.com/feen1e/recipe-app-backend/pkg/enums"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubResolver struct {
	caller identity.Caller
	err    error

	gotToken string
}

func (s *stubResolver) Resolve(_ context.Context, token string) (identity.Caller, error) {
	s.gotToken = token
	if s.err != nil {
		return identity.Caller{}, s.err
	}
	return s.caller, nil
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(&stubResolver{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	resolver := &stubResolver{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid token")}
	handler := Auth(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if resolver.gotToken != "invalid" {
		t.Fatalf("expected bearer prefix stripped, got %q", resolver.gotToken)
	}
}

func TestAuthSeedsCallerContext(t *testing.T) {
	caller := identity.Caller{ID: uuid.New(), Username: "ada", Email: "ada@example.com", Role: enums.UserRoleAdmin}
	handler := Auth(&stubResolver{caller: caller}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := CallerFromContext(r.Context())
		if !ok {
			t.Fatal("expected caller in context")
		}
		if got.ID != caller.ID || got.Role != enums.UserRoleAdmin {
			t.Fatalf("unexpected caller %+v", got)
		}
		if UserIDFromContext(r.Context()) != caller.ID {
			t.Fatal("user id helper mismatch")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRequireRoleBlocksNonAdmins(t *testing.T) {
	handler := RequireRole(enums.UserRoleAdmin, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	caller := identity.Caller{ID: uuid.New(), Role: enums.UserRoleUser}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithCaller(req.Context(), caller))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
