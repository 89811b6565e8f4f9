package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubFavoriteRepo struct {
	favorites map[uuid.UUID]map[uuid.UUID]models.Favorite
	recipes   map[uuid.UUID]models.Recipe

	createErr error
}

func newStubFavoriteRepo() *stubFavoriteRepo {
	return &stubFavoriteRepo{
		favorites: map[uuid.UUID]map[uuid.UUID]models.Favorite{},
		recipes:   map[uuid.UUID]models.Recipe{},
	}
}

func (s *stubFavoriteRepo) ListRecipesByUser(_ context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var out []models.Recipe
	for recipeID := range s.favorites[userID] {
		out = append(out, s.recipes[recipeID])
	}
	return out, nil
}

func (s *stubFavoriteRepo) Find(_ context.Context, userID, recipeID uuid.UUID) (models.Favorite, error) {
	if f, ok := s.favorites[userID][recipeID]; ok {
		return f, nil
	}
	return models.Favorite{}, gorm.ErrRecordNotFound
}

func (s *stubFavoriteRepo) Create(_ context.Context, favorite *models.Favorite) error {
	if s.createErr != nil {
		return s.createErr
	}
	favorite.ID = uuid.New()
	if s.favorites[favorite.UserID] == nil {
		s.favorites[favorite.UserID] = map[uuid.UUID]models.Favorite{}
	}
	s.favorites[favorite.UserID][favorite.RecipeID] = *favorite
	return nil
}

func (s *stubFavoriteRepo) Delete(_ context.Context, userID, recipeID uuid.UUID) error {
	delete(s.favorites[userID], recipeID)
	return nil
}

type stubUserRepo struct {
	users map[uuid.UUID]models.User
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByUsername(_ context.Context, username string) (models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

type stubRecipeFinder struct {
	repo *stubFavoriteRepo
}

func (s *stubRecipeFinder) FindByID(_ context.Context, id uuid.UUID) (models.Recipe, error) {
	if r, ok := s.repo.recipes[id]; ok {
		return r, nil
	}
	return models.Recipe{}, gorm.ErrRecordNotFound
}

func newTestService(t *testing.T, repo *stubFavoriteRepo, users *stubUserRepo) Service {
	t.Helper()
	if users == nil {
		users = &stubUserRepo{users: map[uuid.UUID]models.User{}}
	}
	svc, err := NewService(ServiceParams{
		FavoriteRepo: repo,
		UserRepo:     users,
		RecipeRepo:   &stubRecipeFinder{repo: repo},
		BaseURL:      "https://api.example.com",
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAddFavoriteRoundTrip(t *testing.T) {
	repo := newStubFavoriteRepo()
	user := models.User{ID: uuid.New(), Username: "ada"}
	users := &stubUserRepo{users: map[uuid.UUID]models.User{user.ID: user}}
	img := "recipes/bread.jpg"
	recipe := models.Recipe{ID: uuid.New(), AuthorID: uuid.New(), Title: "Bread", ImageURL: &img}
	repo.recipes[recipe.ID] = recipe
	svc := newTestService(t, repo, users)

	fav, err := svc.Add(context.Background(), user.ID, recipe.ID)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if fav.UserID != user.ID || fav.RecipeID != recipe.ID {
		t.Fatalf("unexpected favorite %+v", fav)
	}

	out, err := svc.ListByUsername(context.Background(), "ada")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].ID != recipe.ID {
		t.Fatalf("unexpected favorites %+v", out)
	}
	if out[0].ImageURL == nil || *out[0].ImageURL != "https://api.example.com/uploads/recipes/bread.jpg" {
		t.Fatalf("unexpected image url %v", out[0].ImageURL)
	}
}

func TestAddFavoriteUnknownUserNotFound(t *testing.T) {
	repo := newStubFavoriteRepo()
	recipe := models.Recipe{ID: uuid.New(), Title: "Bread"}
	repo.recipes[recipe.ID] = recipe
	svc := newTestService(t, repo, nil)

	_, gotErr := svc.Add(context.Background(), uuid.New(), recipe.ID)
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
}

func TestAddFavoriteUnknownRecipeNotFound(t *testing.T) {
	repo := newStubFavoriteRepo()
	user := models.User{ID: uuid.New(), Username: "ada"}
	users := &stubUserRepo{users: map[uuid.UUID]models.User{user.ID: user}}
	svc := newTestService(t, repo, users)
	recipeID := uuid.New()

	_, gotErr := svc.Add(context.Background(), user.ID, recipeID)
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
	if typed.Message() != "Recipe with ID "+recipeID.String()+" not found" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestAddFavoriteDuplicateIsConflict(t *testing.T) {
	repo := newStubFavoriteRepo()
	user := models.User{ID: uuid.New(), Username: "ada"}
	users := &stubUserRepo{users: map[uuid.UUID]models.User{user.ID: user}}
	recipe := models.Recipe{ID: uuid.New(), Title: "Bread"}
	repo.recipes[recipe.ID] = recipe
	repo.createErr = errors.New(`duplicate key value violates unique constraint "favorites_user_recipe_key"`)
	svc := newTestService(t, repo, users)

	_, gotErr := svc.Add(context.Background(), user.ID, recipe.ID)
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", gotErr)
	}
	if typed.Message() != "Recipe is already in favorites" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestRemoveMissingFavoriteNotFound(t *testing.T) {
	svc := newTestService(t, newStubFavoriteRepo(), nil)

	gotErr := svc.Remove(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
	if typed.Message() != "Favorite not found" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestRemoveFavoriteSucceeds(t *testing.T) {
	repo := newStubFavoriteRepo()
	user := models.User{ID: uuid.New(), Username: "ada"}
	users := &stubUserRepo{users: map[uuid.UUID]models.User{user.ID: user}}
	recipe := models.Recipe{ID: uuid.New(), Title: "Bread"}
	repo.recipes[recipe.ID] = recipe
	svc := newTestService(t, repo, users)

	if _, err := svc.Add(context.Background(), user.ID, recipe.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Remove(context.Background(), user.ID, recipe.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	out, err := svc.ListByUsername(context.Background(), "ada")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no favorites, got %+v", out)
	}
}
