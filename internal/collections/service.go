package collections

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/feen1e/recipe-app-backend/internal/recipes"
	"github.com/feen1e/recipe-app-backend/pkg/authz"
	"github.com/feen1e/recipe-app-backend/pkg/db"
	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type collectionRepository interface {
	ListAll(ctx context.Context) ([]models.Collection, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Collection, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.Collection, error)
	ListRecipes(ctx context.Context, collectionID uuid.UUID) ([]models.Recipe, error)
	Create(ctx context.Context, collection *models.Collection) error
	Save(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddRecipe(ctx context.Context, link *models.CollectionRecipe) error
}

type userFinder interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

type recipeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.Recipe, error)
}

// Service exposes collection operations.
type Service interface {
	List(ctx context.Context) ([]CollectionDTO, error)
	ListByUsername(ctx context.Context, username string) ([]CollectionDTO, error)
	GetWithRecipes(ctx context.Context, id uuid.UUID) (CollectionWithRecipesDTO, error)
	Create(ctx context.Context, ownerID uuid.UUID, input CreateCollectionInput) (CollectionDTO, error)
	Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input UpdateCollectionInput) (CollectionDTO, error)
	Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) (DeletedDTO, error)
	AddRecipe(ctx context.Context, actor authz.Actor, id uuid.UUID, recipeID uuid.UUID) (CollectionRecipeDTO, error)
}

// ServiceParams groups dependencies for the collection service.
type ServiceParams struct {
	CollectionRepo collectionRepository
	UserRepo       userFinder
	RecipeRepo     recipeFinder
	BaseURL        string
}

type service struct {
	collectionRepo collectionRepository
	userRepo       userFinder
	recipeRepo     recipeFinder
	baseURL        string
}

// NewService builds a collection service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CollectionRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collection repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.RecipeRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe repo is required")
	}
	return &service{
		collectionRepo: params.CollectionRepo,
		userRepo:       params.UserRepo,
		recipeRepo:     params.RecipeRepo,
		baseURL:        params.BaseURL,
	}, nil
}

// List returns every collection.
func (s *service) List(ctx context.Context) ([]CollectionDTO, error) {
	collections, err := s.collectionRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list collections")
	}
	return toDTOs(collections), nil
}

// ListByUsername returns every collection owned by the named user.
func (s *service) ListByUsername(ctx context.Context, username string) ([]CollectionDTO, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "User not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	collections, err := s.collectionRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list collections")
	}
	return toDTOs(collections), nil
}

// GetWithRecipes returns the collection expanded with its shelved recipes.
func (s *service) GetWithRecipes(ctx context.Context, id uuid.UUID) (CollectionWithRecipesDTO, error) {
	collection, err := s.loadCollection(ctx, id)
	if err != nil {
		return CollectionWithRecipesDTO{}, err
	}

	rows, err := s.collectionRepo.ListRecipes(ctx, id)
	if err != nil {
		return CollectionWithRecipesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list collection recipes")
	}

	out := CollectionWithRecipesDTO{
		CollectionDTO: toCollectionDTO(collection),
		Recipes:       make([]recipes.RecipeDTO, 0, len(rows)),
	}
	for _, row := range rows {
		out.Recipes = append(out.Recipes, recipes.NewRecipeDTO(row, s.baseURL))
	}
	return out, nil
}

// Create persists a new collection owned by ownerID.
func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateCollectionInput) (CollectionDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return CollectionDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
	}

	collection := models.Collection{
		UserID:      ownerID,
		Name:        name,
		Description: input.Description,
	}
	if err := s.collectionRepo.Create(ctx, &collection); err != nil {
		return CollectionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create collection")
	}
	return toCollectionDTO(collection), nil
}

// Update merges the provided fields onto the collection. Only the owner or an
// admin may update.
func (s *service) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input UpdateCollectionInput) (CollectionDTO, error) {
	collection, err := s.loadCollection(ctx, id)
	if err != nil {
		return CollectionDTO{}, err
	}
	if !authz.CanMutate(actor, collection.UserID) {
		return CollectionDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "You do not have permission to edit this collection")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return CollectionDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		collection.Name = name
	}
	if input.Description != nil {
		collection.Description = input.Description
	}

	if err := s.collectionRepo.Save(ctx, &collection); err != nil {
		return CollectionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save collection")
	}
	return toCollectionDTO(collection), nil
}

// Delete removes the collection and its recipe links. Only the owner or an
// admin may delete.
func (s *service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) (DeletedDTO, error) {
	collection, err := s.loadCollection(ctx, id)
	if err != nil {
		return DeletedDTO{}, err
	}
	if !authz.CanMutate(actor, collection.UserID) {
		return DeletedDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "You do not have permission to delete this collection")
	}

	if err := s.collectionRepo.Delete(ctx, id); err != nil {
		return DeletedDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete collection")
	}
	return DeletedDTO{Message: "Collection deleted successfully"}, nil
}

// AddRecipe shelves a recipe into the collection. Only the owner or an admin
// may modify the collection; a recipe may appear at most once per collection.
func (s *service) AddRecipe(ctx context.Context, actor authz.Actor, id uuid.UUID, recipeID uuid.UUID) (CollectionRecipeDTO, error) {
	collection, err := s.loadCollection(ctx, id)
	if err != nil {
		return CollectionRecipeDTO{}, err
	}
	if !authz.CanMutate(actor, collection.UserID) {
		return CollectionRecipeDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "You do not have permission to modify this collection")
	}

	if _, err := s.recipeRepo.FindByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CollectionRecipeDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("Recipe with ID %s does not exist", recipeID))
		}
		return CollectionRecipeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recipe")
	}

	link := models.CollectionRecipe{CollectionID: id, RecipeID: recipeID}
	if err := s.collectionRepo.AddRecipe(ctx, &link); err != nil {
		if db.IsUniqueViolation(err, "collection_recipes_collection_recipe_key") {
			return CollectionRecipeDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Recipe already exists in this collection")
		}
		return CollectionRecipeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add recipe to collection")
	}
	return toLinkDTO(link), nil
}

func (s *service) loadCollection(ctx context.Context, id uuid.UUID) (models.Collection, error) {
	collection, err := s.collectionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Collection{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Collection not found")
		}
		return models.Collection{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load collection")
	}
	return collection, nil
}

func toDTOs(collections []models.Collection) []CollectionDTO {
	out := make([]CollectionDTO, 0, len(collections))
	for _, collection := range collections {
		out = append(out, toCollectionDTO(collection))
	}
	return out
}
