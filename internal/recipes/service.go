package recipes

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/feen1e/recipe-app-backend/pkg/authz"
	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/feen1e/recipe-app-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type recipeRepository interface {
	ListAll(ctx context.Context) ([]models.Recipe, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Recipe, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.Recipe, error)
	FindUpdatedAt(ctx context.Context, id uuid.UUID) (time.Time, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	Save(ctx context.Context, recipe *models.Recipe) error
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	ListLatest(ctx context.Context, cursorUpdatedAt *time.Time, fetch int) ([]recipeWithAuthor, error)
	ExcludedRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListDiscoverCandidates(ctx context.Context, callerID uuid.UUID, excluded []uuid.UUID, fetch int) ([]recipeWithAuthor, error)
}

type userFinder interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

type uploadCleanup interface {
	Remove(ctx context.Context, stored string)
}

// Service exposes recipe operations.
type Service interface {
	List(ctx context.Context) ([]RecipeDTO, error)
	ListByUsername(ctx context.Context, username string) ([]RecipeDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (RecipeDTO, error)
	Create(ctx context.Context, authorID uuid.UUID, input CreateRecipeInput) (RecipeDTO, error)
	Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input UpdateRecipeInput) (RecipeDTO, error)
	Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error
	Latest(ctx context.Context, cursor string, limit int) (LatestRecipesDTO, error)
	Discover(ctx context.Context, callerID uuid.UUID, limit int) (DiscoverRecipesDTO, error)
}

// ServiceParams groups dependencies for the recipe service.
type ServiceParams struct {
	RecipeRepo recipeRepository
	UserRepo   userFinder
	Cleanup    uploadCleanup
	BaseURL    string
}

type service struct {
	recipeRepo recipeRepository
	userRepo   userFinder
	cleanup    uploadCleanup
	baseURL    string
}

// NewService builds a recipe service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.RecipeRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{
		recipeRepo: params.RecipeRepo,
		userRepo:   params.UserRepo,
		cleanup:    params.Cleanup,
		baseURL:    params.BaseURL,
	}, nil
}

// List returns every recipe.
func (s *service) List(ctx context.Context) ([]RecipeDTO, error) {
	recipes, err := s.recipeRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recipes")
	}
	return s.toDTOs(recipes), nil
}

// ListByUsername returns every recipe authored by the named user.
func (s *service) ListByUsername(ctx context.Context, username string) ([]RecipeDTO, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "User not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	recipes, err := s.recipeRepo.ListByAuthor(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recipes")
	}
	return s.toDTOs(recipes), nil
}

// GetByID returns one recipe.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (RecipeDTO, error) {
	recipe, err := s.loadRecipe(ctx, id)
	if err != nil {
		return RecipeDTO{}, err
	}
	return NewRecipeDTO(recipe, s.baseURL), nil
}

// Create persists a new recipe authored by authorID.
func (s *service) Create(ctx context.Context, authorID uuid.UUID, input CreateRecipeInput) (RecipeDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return RecipeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "title must not be empty")
	}
	ingredients, err := cleanSteps(input.Ingredients, "ingredients")
	if err != nil {
		return RecipeDTO{}, err
	}
	steps, err := cleanSteps(input.Steps, "steps")
	if err != nil {
		return RecipeDTO{}, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Title:       title,
		Description: input.Description,
		Ingredients: ingredients,
		Steps:       steps,
		ImageURL:    input.ImageURL,
	}
	if err := s.recipeRepo.Create(ctx, &recipe); err != nil {
		return RecipeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create recipe")
	}
	return NewRecipeDTO(recipe, s.baseURL), nil
}

// Update merges the provided fields onto the recipe. Only the author or an
// admin may update; a replaced image has its old file removed best-effort.
func (s *service) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input UpdateRecipeInput) (RecipeDTO, error) {
	recipe, err := s.loadRecipe(ctx, id)
	if err != nil {
		return RecipeDTO{}, err
	}
	if !authz.CanMutate(actor, recipe.AuthorID) {
		return RecipeDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "You do not have permission to update this recipe")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return RecipeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "title must not be empty")
		}
		recipe.Title = title
	}
	if input.Description != nil {
		recipe.Description = input.Description
	}
	if input.Ingredients != nil {
		ingredients, err := cleanSteps(input.Ingredients, "ingredients")
		if err != nil {
			return RecipeDTO{}, err
		}
		recipe.Ingredients = ingredients
	}
	if input.Steps != nil {
		steps, err := cleanSteps(input.Steps, "steps")
		if err != nil {
			return RecipeDTO{}, err
		}
		recipe.Steps = steps
	}

	oldImage := ""
	if recipe.ImageURL != nil {
		oldImage = strings.TrimSpace(*recipe.ImageURL)
	}
	if input.ImageURL != nil {
		newImage := strings.TrimSpace(*input.ImageURL)
		if oldImage != "" && newImage != oldImage && s.cleanup != nil {
			s.cleanup.Remove(ctx, oldImage)
		}
		recipe.ImageURL = input.ImageURL
	}

	if err := s.recipeRepo.Save(ctx, &recipe); err != nil {
		return RecipeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save recipe")
	}
	return NewRecipeDTO(recipe, s.baseURL), nil
}

// Delete removes the recipe together with its favorites, ratings and
// collection links. Only the author or an admin may delete.
func (s *service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	recipe, err := s.loadRecipe(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanMutate(actor, recipe.AuthorID) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "You do not have permission to delete this recipe")
	}

	if err := s.recipeRepo.DeleteCascade(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete recipe")
	}
	if recipe.ImageURL != nil && s.cleanup != nil {
		s.cleanup.Remove(ctx, *recipe.ImageURL)
	}
	return nil
}

// Latest returns one page of recipes ordered by most recent update. The
// cursor is the id of the last recipe on the previous page.
func (s *service) Latest(ctx context.Context, cursor string, limit int) (LatestRecipesDTO, error) {
	var cursorUpdatedAt *time.Time
	cursor = strings.TrimSpace(cursor)
	if cursor != "" {
		cursorID, err := uuid.Parse(cursor)
		if err != nil {
			return LatestRecipesDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cursor must be a valid recipe id")
		}
		updatedAt, err := s.recipeRepo.FindUpdatedAt(ctx, cursorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return LatestRecipesDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("Recipe with ID %s not found", cursorID))
			}
			return LatestRecipesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve cursor")
		}
		cursorUpdatedAt = &updatedAt
	}

	pageSize := pagination.NormalizeLimit(limit)
	rows, err := s.recipeRepo.ListLatest(ctx, cursorUpdatedAt, pagination.LimitWithBuffer(limit))
	if err != nil {
		return LatestRecipesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list latest recipes")
	}

	hasMore := len(rows) > pageSize
	if hasMore {
		rows = rows[:pageSize]
	}

	page := LatestRecipesDTO{Recipes: make([]LatestRecipeDTO, 0, len(rows)), HasMore: hasMore}
	for _, row := range rows {
		page.Recipes = append(page.Recipes, toLatestDTO(row, s.baseURL))
	}
	if hasMore && len(rows) > 0 {
		next := rows[len(rows)-1].Recipe.ID.String()
		page.NextCursor = &next
	}
	return page, nil
}

// Discover returns a random sample of recent recipes the caller has no
// relationship with: nothing they authored, favorited or shelved in one of
// their collections. An anonymous caller (zero id) gets an unfiltered sample.
func (s *service) Discover(ctx context.Context, callerID uuid.UUID, limit int) (DiscoverRecipesDTO, error) {
	var excluded []uuid.UUID
	if callerID != uuid.Nil {
		var err error
		excluded, err = s.recipeRepo.ExcludedRecipeIDs(ctx, callerID)
		if err != nil {
			return DiscoverRecipesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve excluded recipes")
		}
	}

	rows, err := s.recipeRepo.ListDiscoverCandidates(ctx, callerID, excluded, pagination.DiscoverFetchSize(limit))
	if err != nil {
		return DiscoverRecipesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discover candidates")
	}

	rand.Shuffle(len(rows), func(i, j int) {
		rows[i], rows[j] = rows[j], rows[i]
	})
	if pageSize := pagination.NormalizeDiscoverLimit(limit); len(rows) > pageSize {
		rows = rows[:pageSize]
	}

	out := DiscoverRecipesDTO{Recipes: make([]DiscoverRecipeDTO, 0, len(rows))}
	for _, row := range rows {
		out.Recipes = append(out.Recipes, toDiscoverDTO(row, s.baseURL))
	}
	out.Count = len(out.Recipes)
	return out, nil
}

func (s *service) loadRecipe(ctx context.Context, id uuid.UUID) (models.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Recipe{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("Recipe with ID %s not found", id))
		}
		return models.Recipe{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recipe")
	}
	return recipe, nil
}

func (s *service) toDTOs(recipes []models.Recipe) []RecipeDTO {
	out := make([]RecipeDTO, 0, len(recipes))
	for _, recipe := range recipes {
		out = append(out, NewRecipeDTO(recipe, s.baseURL))
	}
	return out
}

func cleanSteps(values []string, field string) ([]string, error) {
	if len(values) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" must not be empty")
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" entries must not be empty")
		}
		out = append(out, v)
	}
	return out, nil
}
