package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/feen1e/recipe-app-backend/internal/identity"
	pkgauth "github.com/feen1e/recipe-app-backend/pkg/auth"
	"github.com/feen1e/recipe-app-backend/pkg/config"
	"github.com/feen1e/recipe-app-backend/pkg/db"
	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/feen1e/recipe-app-backend/pkg/enums"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/feen1e/recipe-app-backend/pkg/security"
	"gorm.io/gorm"
)

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// Service handles registration and credential-based login.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (SessionDTO, error)
	Login(ctx context.Context, input LoginInput) (SessionDTO, error)
	Me(caller identity.Caller) MeDTO
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	UserRepo userRepository
	JWT      config.JWTConfig
	Password config.PasswordConfig
}

type service struct {
	userRepo userRepository
	jwt      config.JWTConfig
	password config.PasswordConfig
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.JWT.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt secret is required")
	}
	return &service{userRepo: params.UserRepo, jwt: params.JWT, password: params.Password}, nil
}

// Register creates a new account and returns a fresh session. Duplicate
// emails are reported as a conflict before the write; the unique index
// closes the remaining race.
func (s *service) Register(ctx context.Context, input RegisterInput) (SessionDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	_, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "User already exists")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing user")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleUser,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "User already exists")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.session(user)
}

// Login verifies the identifier/password pair. The failure message never
// reveals which half was wrong.
func (s *service) Login(ctx context.Context, input LoginInput) (SessionDTO, error) {
	identifier := strings.TrimSpace(input.Identifier)

	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")
	}

	return s.session(user)
}

// Me echoes the guard-verified identity.
func (s *service) Me(caller identity.Caller) MeDTO {
	return MeDTO{
		ID:       caller.ID,
		Username: caller.Username,
		Email:    caller.Email,
		Role:     caller.Role.String(),
	}
}

func (s *service) session(user models.User) (SessionDTO, error) {
	token, err := pkgauth.MintAccessToken(s.jwt, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}
	return SessionDTO{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}
