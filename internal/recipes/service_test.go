package recipes

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/feen1e/recipe-app-backend/pkg/authz"
	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/feen1e/recipe-app-backend/pkg/enums"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubRecipeRepo struct {
	recipes  map[uuid.UUID]models.Recipe
	authors  map[uuid.UUID]models.User
	excluded map[uuid.UUID]bool

	deleted []uuid.UUID
	saved   []models.Recipe
}

func newStubRecipeRepo() *stubRecipeRepo {
	return &stubRecipeRepo{
		recipes:  map[uuid.UUID]models.Recipe{},
		authors:  map[uuid.UUID]models.User{},
		excluded: map[uuid.UUID]bool{},
	}
}

func (s *stubRecipeRepo) add(recipe models.Recipe, author models.User) models.Recipe {
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	recipe.AuthorID = author.ID
	s.recipes[recipe.ID] = recipe
	s.authors[author.ID] = author
	return recipe
}

func (s *stubRecipeRepo) ordered(less func(a, b models.Recipe) bool) []models.Recipe {
	out := make([]models.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (s *stubRecipeRepo) row(recipe models.Recipe) recipeWithAuthor {
	author := s.authors[recipe.AuthorID]
	return recipeWithAuthor{Recipe: recipe, AuthorUsername: author.Username, AuthorAvatarURL: author.AvatarURL}
}

func (s *stubRecipeRepo) ListAll(_ context.Context) ([]models.Recipe, error) {
	return s.ordered(func(a, b models.Recipe) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

func (s *stubRecipeRepo) ListByAuthor(_ context.Context, authorID uuid.UUID) ([]models.Recipe, error) {
	var out []models.Recipe
	for _, r := range s.recipes {
		if r.AuthorID == authorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRecipeRepo) FindByID(_ context.Context, id uuid.UUID) (models.Recipe, error) {
	if r, ok := s.recipes[id]; ok {
		return r, nil
	}
	return models.Recipe{}, gorm.ErrRecordNotFound
}

func (s *stubRecipeRepo) FindUpdatedAt(_ context.Context, id uuid.UUID) (time.Time, error) {
	if r, ok := s.recipes[id]; ok {
		return r.UpdatedAt, nil
	}
	return time.Time{}, gorm.ErrRecordNotFound
}

func (s *stubRecipeRepo) Create(_ context.Context, recipe *models.Recipe) error {
	recipe.ID = uuid.New()
	s.recipes[recipe.ID] = *recipe
	return nil
}

func (s *stubRecipeRepo) Save(_ context.Context, recipe *models.Recipe) error {
	s.recipes[recipe.ID] = *recipe
	s.saved = append(s.saved, *recipe)
	return nil
}

func (s *stubRecipeRepo) DeleteCascade(_ context.Context, id uuid.UUID) error {
	delete(s.recipes, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubRecipeRepo) ListLatest(_ context.Context, cursorUpdatedAt *time.Time, fetch int) ([]recipeWithAuthor, error) {
	ordered := s.ordered(func(a, b models.Recipe) bool { return a.UpdatedAt.After(b.UpdatedAt) })
	var out []recipeWithAuthor
	for _, r := range ordered {
		if cursorUpdatedAt != nil && !r.UpdatedAt.Before(*cursorUpdatedAt) {
			continue
		}
		out = append(out, s.row(r))
		if len(out) == fetch {
			break
		}
	}
	return out, nil
}

func (s *stubRecipeRepo) ExcludedRecipeIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id := range s.excluded {
		out = append(out, id)
	}
	return out, nil
}

func (s *stubRecipeRepo) ListDiscoverCandidates(_ context.Context, callerID uuid.UUID, excluded []uuid.UUID, fetch int) ([]recipeWithAuthor, error) {
	skip := map[uuid.UUID]bool{}
	for _, id := range excluded {
		skip[id] = true
	}
	ordered := s.ordered(func(a, b models.Recipe) bool { return a.CreatedAt.After(b.CreatedAt) })
	var out []recipeWithAuthor
	for _, r := range ordered {
		if r.AuthorID == callerID || skip[r.ID] {
			continue
		}
		out = append(out, s.row(r))
		if len(out) == fetch {
			break
		}
	}
	return out, nil
}

type stubUserFinder struct {
	users map[string]models.User
}

func (s *stubUserFinder) FindByUsername(_ context.Context, username string) (models.User, error) {
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return models.User{}, gorm.ErrRecordNotFound
}

type stubCleanup struct {
	removed []string
}

func (s *stubCleanup) Remove(_ context.Context, stored string) {
	s.removed = append(s.removed, stored)
}

func strPtr(v string) *string { return &v }

func testAuthor(username string) models.User {
	return models.User{ID: uuid.New(), Username: username, Email: username + "@example.com", Role: enums.UserRoleUser}
}

func newTestService(t *testing.T, repo *stubRecipeRepo, cleanup *stubCleanup) Service {
	t.Helper()
	users := &stubUserFinder{users: map[string]models.User{}}
	for _, u := range repo.authors {
		users.users[u.Username] = u
	}
	svc, err := NewService(ServiceParams{
		RecipeRepo: repo,
		UserRepo:   users,
		Cleanup:    cleanup,
		BaseURL:    "https://api.example.com",
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestGetByIDMapsImageURL(t *testing.T) {
	repo := newStubRecipeRepo()
	recipe := repo.add(models.Recipe{Title: "Pancakes", ImageURL: strPtr("recipes/p.jpg")}, testAuthor("ada"))
	svc := newTestService(t, repo, nil)

	dto, err := svc.GetByID(context.Background(), recipe.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if dto.ImageURL == nil || *dto.ImageURL != "https://api.example.com/uploads/recipes/p.jpg" {
		t.Fatalf("unexpected image url %v", dto.ImageURL)
	}
}

func TestGetByIDUnknownRecipeNotFound(t *testing.T) {
	repo := newStubRecipeRepo()
	svc := newTestService(t, repo, nil)
	id := uuid.New()

	_, gotErr := svc.GetByID(context.Background(), id)
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
	if typed.Message() != "Recipe with ID "+id.String()+" not found" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestListByUsernameUnknownUserNotFound(t *testing.T) {
	repo := newStubRecipeRepo()
	svc := newTestService(t, repo, nil)

	_, gotErr := svc.ListByUsername(context.Background(), "ghost")
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
}

func TestCreatePreservesIngredientOrder(t *testing.T) {
	repo := newStubRecipeRepo()
	author := testAuthor("ada")
	repo.authors[author.ID] = author
	svc := newTestService(t, repo, nil)

	ingredients := []string{"flour", "milk", "eggs", "salt"}
	dto, err := svc.Create(context.Background(), author.ID, CreateRecipeInput{
		Title:       "Pancakes",
		Ingredients: ingredients,
		Steps:       []string{"mix", "fry"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(dto.Ingredients) != len(ingredients) {
		t.Fatalf("expected %d ingredients, got %d", len(ingredients), len(dto.Ingredients))
	}
	for i, want := range ingredients {
		if dto.Ingredients[i] != want {
			t.Fatalf("ingredient %d: want %q, got %q", i, want, dto.Ingredients[i])
		}
	}
	if dto.AuthorID != author.ID {
		t.Fatalf("author not stamped: %v", dto.AuthorID)
	}
}

func TestCreateRejectsBlankEntries(t *testing.T) {
	repo := newStubRecipeRepo()
	svc := newTestService(t, repo, nil)

	cases := []CreateRecipeInput{
		{Title: "  ", Ingredients: []string{"a"}, Steps: []string{"b"}},
		{Title: "ok", Ingredients: nil, Steps: []string{"b"}},
		{Title: "ok", Ingredients: []string{"a", "  "}, Steps: []string{"b"}},
		{Title: "ok", Ingredients: []string{"a"}, Steps: []string{}},
	}
	for i, input := range cases {
		_, gotErr := svc.Create(context.Background(), uuid.New(), input)
		typed := pkgerrors.As(gotErr)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, gotErr)
		}
	}
}

func TestUpdateByNonOwnerIsForbidden(t *testing.T) {
	repo := newStubRecipeRepo()
	recipe := repo.add(models.Recipe{Title: "Pancakes"}, testAuthor("ada"))
	svc := newTestService(t, repo, nil)

	actor := authz.Actor{ID: uuid.New(), Role: enums.UserRoleUser}
	_, gotErr := svc.Update(context.Background(), actor, recipe.ID, UpdateRecipeInput{Title: strPtr("Waffles")})
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", gotErr)
	}
	if typed.Message() != "You do not have permission to update this recipe" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestUpdateByAdminIsAllowed(t *testing.T) {
	repo := newStubRecipeRepo()
	recipe := repo.add(models.Recipe{Title: "Pancakes"}, testAuthor("ada"))
	svc := newTestService(t, repo, nil)

	admin := authz.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}
	dto, err := svc.Update(context.Background(), admin, recipe.ID, UpdateRecipeInput{Title: strPtr("Waffles")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Title != "Waffles" {
		t.Fatalf("title not updated: %q", dto.Title)
	}
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	repo := newStubRecipeRepo()
	author := testAuthor("ada")
	recipe := repo.add(models.Recipe{
		Title:       "Pancakes",
		Description: strPtr("classic"),
		Ingredients: []string{"flour"},
		Steps:       []string{"mix"},
	}, author)
	svc := newTestService(t, repo, nil)

	actor := authz.Actor{ID: author.ID, Role: enums.UserRoleUser}
	dto, err := svc.Update(context.Background(), actor, recipe.ID, UpdateRecipeInput{Steps: []string{"mix", "fry"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Title != "Pancakes" || dto.Description == nil || *dto.Description != "classic" {
		t.Fatalf("untouched fields changed: %+v", dto)
	}
	if len(dto.Steps) != 2 {
		t.Fatalf("steps not replaced: %v", dto.Steps)
	}
}

func TestUpdateImageChangeDeletesOldFileOnce(t *testing.T) {
	repo := newStubRecipeRepo()
	author := testAuthor("ada")
	recipe := repo.add(models.Recipe{Title: "Pancakes", ImageURL: strPtr("recipes/old.jpg")}, author)
	cleanup := &stubCleanup{}
	svc := newTestService(t, repo, cleanup)

	actor := authz.Actor{ID: author.ID, Role: enums.UserRoleUser}
	_, err := svc.Update(context.Background(), actor, recipe.ID, UpdateRecipeInput{ImageURL: strPtr("recipes/new.jpg")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(cleanup.removed) != 1 || cleanup.removed[0] != "recipes/old.jpg" {
		t.Fatalf("expected exactly one deletion of the old image, got %v", cleanup.removed)
	}
}

func TestDeleteByNonOwnerIsForbidden(t *testing.T) {
	repo := newStubRecipeRepo()
	recipe := repo.add(models.Recipe{Title: "Pancakes"}, testAuthor("ada"))
	svc := newTestService(t, repo, nil)

	actor := authz.Actor{ID: uuid.New(), Role: enums.UserRoleUser}
	gotErr := svc.Delete(context.Background(), actor, recipe.ID)
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", gotErr)
	}
	if typed.Message() != "You do not have permission to delete this recipe" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestDeleteCascadesAndCleansImage(t *testing.T) {
	repo := newStubRecipeRepo()
	author := testAuthor("ada")
	recipe := repo.add(models.Recipe{Title: "Pancakes", ImageURL: strPtr("recipes/p.jpg")}, author)
	cleanup := &stubCleanup{}
	svc := newTestService(t, repo, cleanup)

	actor := authz.Actor{ID: author.ID, Role: enums.UserRoleUser}
	if err := svc.Delete(context.Background(), actor, recipe.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != recipe.ID {
		t.Fatalf("cascade not invoked: %v", repo.deleted)
	}
	if len(cleanup.removed) != 1 || cleanup.removed[0] != "recipes/p.jpg" {
		t.Fatalf("image not cleaned up: %v", cleanup.removed)
	}
}

func seedFeed(repo *stubRecipeRepo, n int) []models.Recipe {
	author := testAuthor("ada")
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	out := make([]models.Recipe, 0, n)
	for i := 0; i < n; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		out = append(out, repo.add(models.Recipe{
			Title:       "Recipe",
			Ingredients: []string{"x"},
			Steps:       []string{"y"},
			CreatedAt:   ts,
			UpdatedAt:   ts,
		}, author))
	}
	return out
}

func TestLatestWalksAllPagesWithoutGapsOrDuplicates(t *testing.T) {
	repo := newStubRecipeRepo()
	seedFeed(repo, 7)
	svc := newTestService(t, repo, nil)

	seen := map[uuid.UUID]bool{}
	cursor := ""
	pages := 0
	for {
		page, err := svc.Latest(context.Background(), cursor, 3)
		if err != nil {
			t.Fatalf("latest page %d: %v", pages, err)
		}
		var prev *time.Time
		for _, item := range page.Recipes {
			if seen[item.ID] {
				t.Fatalf("recipe %s returned twice", item.ID)
			}
			seen[item.ID] = true
			if prev != nil && item.UpdatedAt.After(*prev) {
				t.Fatalf("page not ordered by updatedAt desc")
			}
			ts := item.UpdatedAt
			prev = &ts
		}
		pages++
		if !page.HasMore {
			if page.NextCursor != nil {
				t.Fatalf("nextCursor set on final page")
			}
			break
		}
		if page.NextCursor == nil {
			t.Fatalf("hasMore without nextCursor")
		}
		if last := page.Recipes[len(page.Recipes)-1]; *page.NextCursor != last.ID.String() {
			t.Fatalf("nextCursor %q is not the last item %s", *page.NextCursor, last.ID)
		}
		cursor = *page.NextCursor
	}
	if len(seen) != 7 {
		t.Fatalf("expected all 7 recipes across pages, saw %d", len(seen))
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages of size 3, got %d", pages)
	}
}

func TestLatestUnknownCursorNotFound(t *testing.T) {
	repo := newStubRecipeRepo()
	seedFeed(repo, 2)
	svc := newTestService(t, repo, nil)

	_, gotErr := svc.Latest(context.Background(), uuid.NewString(), 10)
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
}

func TestLatestMalformedCursorIsValidationError(t *testing.T) {
	repo := newStubRecipeRepo()
	svc := newTestService(t, repo, nil)

	_, gotErr := svc.Latest(context.Background(), "not-a-uuid", 10)
	typed := pkgerrors.As(gotErr)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestDiscoverExcludesOwnAndRelatedRecipes(t *testing.T) {
	repo := newStubRecipeRepo()
	caller := testAuthor("caller")
	other := testAuthor("other")
	repo.authors[caller.ID] = caller

	mine := repo.add(models.Recipe{Title: "Mine"}, caller)
	favorited := repo.add(models.Recipe{Title: "Favorited"}, other)
	shelved := repo.add(models.Recipe{Title: "Shelved"}, other)
	fresh := repo.add(models.Recipe{Title: "Fresh"}, other)
	repo.excluded[favorited.ID] = true
	repo.excluded[shelved.ID] = true

	svc := newTestService(t, repo, nil)
	out, err := svc.Discover(context.Background(), caller.ID, 10)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if out.Count != 1 || len(out.Recipes) != 1 {
		t.Fatalf("expected exactly one candidate, got %+v", out)
	}
	if out.Recipes[0].ID != fresh.ID {
		t.Fatalf("expected %s, got %s", fresh.ID, out.Recipes[0].ID)
	}
	_ = mine
}

func TestDiscoverRespectsLimit(t *testing.T) {
	repo := newStubRecipeRepo()
	other := testAuthor("other")
	for i := 0; i < 20; i++ {
		repo.add(models.Recipe{Title: "Recipe", CreatedAt: time.Now().Add(time.Duration(i) * time.Second)}, other)
	}
	svc := newTestService(t, repo, nil)

	out, err := svc.Discover(context.Background(), uuid.Nil, 5)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if out.Count != 5 || len(out.Recipes) != 5 {
		t.Fatalf("expected 5 recipes, got %d", out.Count)
	}
}
