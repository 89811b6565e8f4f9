package identity

import (
	"context"
	"errors"

	pkgauth "github.com/feen1e/recipe-app-backend/pkg/auth"
	"github.com/feen1e/recipe-app-backend/pkg/config"
	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/feen1e/recipe-app-backend/pkg/enums"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Caller is the immutable identity attached to an authenticated request.
type Caller struct {
	ID       uuid.UUID
	Username string
	Email    string
	Role     enums.UserRole
}

// Resolver turns a bearer token into a verified caller identity.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Caller, error)
}

type userLoader interface {
	FindByIDAndEmail(ctx context.Context, id uuid.UUID, email string) (models.User, error)
}

// ServiceParams groups dependencies for the identity resolver.
type ServiceParams struct {
	JWT      config.JWTConfig
	UserRepo userLoader
}

type resolver struct {
	jwt      config.JWTConfig
	userRepo userLoader
}

// NewResolver builds an identity resolver with the required dependencies.
func NewResolver(params ServiceParams) (Resolver, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.JWT.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt secret is required")
	}
	return &resolver{jwt: params.JWT, userRepo: params.UserRepo}, nil
}

// Resolve verifies the token and re-loads the user with both the subject id
// and the token email matching. A token that outlives an email change stops
// resolving. Verification failures never leak their underlying cause.
func (r *resolver) Resolve(ctx context.Context, token string) (Caller, error) {
	claims, err := pkgauth.ParseAccessToken(r.jwt, token)
	if err != nil {
		return Caller{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Invalid token")
	}
	if claims.UserID == uuid.Nil || claims.Email == "" {
		return Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid token")
	}

	user, err := r.userRepo.FindByIDAndEmail(ctx, claims.UserID, claims.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Caller{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Invalid token")
		}
		return Caller{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	return Caller{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}
