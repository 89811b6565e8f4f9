package users

import (
	"context"
	"errors"
	"strings"

	"github.com/feen1e/recipe-app-backend/pkg/config"
	"github.com/feen1e/recipe-app-backend/pkg/db"
	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/feen1e/recipe-app-backend/pkg/enums"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/feen1e/recipe-app-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	UsernameTakenByOther(ctx context.Context, username string, selfID uuid.UUID) (bool, error)
	EmailTakenByOther(ctx context.Context, email string, selfID uuid.UUID) (bool, error)
}

type uploadCleanup interface {
	Remove(ctx context.Context, stored string)
}

// Service exposes user profile operations.
type Service interface {
	GetProfile(ctx context.Context, username string) (ProfileDTO, error)
	UpdateOwnProfile(ctx context.Context, callerID uuid.UUID, input UpdateProfileInput) (ProfileDTO, error)
	UpdateForAdmin(ctx context.Context, targetEmail string, input AdminUpdateInput) (ProfileDTO, error)
	AdminCreate(ctx context.Context, input AdminCreateInput) (ProfileDTO, error)
}

// ServiceParams groups dependencies for the user service.
type ServiceParams struct {
	UserRepo userRepository
	Cleanup  uploadCleanup
	Password config.PasswordConfig
	BaseURL  string
}

type service struct {
	userRepo userRepository
	cleanup  uploadCleanup
	password config.PasswordConfig
	baseURL  string
}

// NewService builds a user service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{
		userRepo: params.UserRepo,
		cleanup:  params.Cleanup,
		password: params.Password,
		baseURL:  params.BaseURL,
	}, nil
}

// GetProfile returns the public projection for a username.
func (s *service) GetProfile(ctx context.Context, username string) (ProfileDTO, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "User not found")
		}
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return toProfileDTO(user, s.baseURL), nil
}

// UpdateOwnProfile merges the provided fields onto the caller's row. A
// username held by a different user is rejected as Forbidden, matching the
// long-standing API behavior, even though Conflict would be the natural code.
func (s *service) UpdateOwnProfile(ctx context.Context, callerID uuid.UUID, input UpdateProfileInput) (ProfileDTO, error) {
	user, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "User not found")
		}
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		taken, err := s.userRepo.UsernameTakenByOther(ctx, username, user.ID)
		if err != nil {
			return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
		}
		if taken {
			return ProfileDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "Username is already taken")
		}
		user.Username = username
	}
	if input.Bio != nil {
		user.Bio = input.Bio
	}

	oldAvatar := ""
	if user.AvatarURL != nil {
		oldAvatar = strings.TrimSpace(*user.AvatarURL)
	}
	if input.Avatar != nil {
		newAvatar := strings.TrimSpace(*input.Avatar)
		if oldAvatar != "" && newAvatar != oldAvatar && s.cleanup != nil {
			s.cleanup.Remove(ctx, oldAvatar)
		}
		user.AvatarURL = input.Avatar
	}

	if err := s.userRepo.Save(ctx, &user); err != nil {
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user")
	}
	return toProfileDTO(user, s.baseURL), nil
}

// UpdateForAdmin merges fields onto the row identified by email, additionally
// allowing email and role changes. Taken checks run independently for
// username and email.
func (s *service) UpdateForAdmin(ctx context.Context, targetEmail string, input AdminUpdateInput) (ProfileDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(targetEmail))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "User not found")
		}
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		taken, err := s.userRepo.UsernameTakenByOther(ctx, username, user.ID)
		if err != nil {
			return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
		}
		if taken {
			return ProfileDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "Username is already taken")
		}
		user.Username = username
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		taken, err := s.userRepo.EmailTakenByOther(ctx, email, user.ID)
		if err != nil {
			return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
		}
		if taken {
			return ProfileDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "Email is already taken")
		}
		user.Email = email
	}
	if input.Role != nil {
		role, err := enums.ParseUserRole(*input.Role)
		if err != nil {
			return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
		}
		user.Role = role
	}
	if input.Bio != nil {
		user.Bio = input.Bio
	}

	oldAvatar := ""
	if user.AvatarURL != nil {
		oldAvatar = strings.TrimSpace(*user.AvatarURL)
	}
	if input.Avatar != nil {
		newAvatar := strings.TrimSpace(*input.Avatar)
		if oldAvatar != "" && newAvatar != oldAvatar && s.cleanup != nil {
			s.cleanup.Remove(ctx, oldAvatar)
		}
		user.AvatarURL = input.Avatar
	}

	if err := s.userRepo.Save(ctx, &user); err != nil {
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user")
	}
	return toProfileDTO(user, s.baseURL), nil
}

// AdminCreate provisions an account on behalf of an administrator.
func (s *service) AdminCreate(ctx context.Context, input AdminCreateInput) (ProfileDTO, error) {
	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := models.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         enums.UserRoleUser,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "User already exists")
		}
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return toProfileDTO(user, s.baseURL), nil
}
