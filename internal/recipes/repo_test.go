package recipes

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRecipesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  bio TEXT,
  avatar_url TEXT,
  role TEXT NOT NULL DEFAULT 'USER',
  created_at DATETIME,
  updated_at DATETIME
);`
	recipes := `
CREATE TABLE IF NOT EXISTS recipes (
  id TEXT PRIMARY KEY,
  author_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  ingredients TEXT NOT NULL,
  steps TEXT NOT NULL,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	ratings := `
CREATE TABLE IF NOT EXISTS ratings (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  recipe_id TEXT NOT NULL,
  stars INTEGER NOT NULL,
  review TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	favorites := `
CREATE TABLE IF NOT EXISTS favorites (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  recipe_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, recipe_id)
);`
	collections := `
CREATE TABLE IF NOT EXISTS collections (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	collectionRecipes := `
CREATE TABLE IF NOT EXISTS collection_recipes (
  id TEXT PRIMARY KEY,
  collection_id TEXT NOT NULL,
  recipe_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (collection_id, recipe_id)
);`
	for _, stmt := range []string{users, recipes, ratings, favorites, collections, collectionRecipes} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID, title string, ts time.Time) models.Recipe {
	t.Helper()

	recipe := models.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       title,
		Ingredients: []string{"flour", "water"},
		Steps:       []string{"mix", "bake"},
	}
	require.NoError(t, db.Create(&recipe).Error)
	require.NoError(t, db.Exec("UPDATE recipes SET created_at = ?, updated_at = ? WHERE id = ?", ts, ts, recipe.ID).Error)
	recipe.CreatedAt = ts
	recipe.UpdatedAt = ts
	return recipe
}

func TestRepositoryCreateAndFindRoundTrip(t *testing.T) {
	db := setupRecipesTestDB(t)
	repo := NewRepository(db)
	author := seedUser(t, db, "ada")

	recipe := models.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Title:       "Bread",
		Ingredients: []string{"flour", "water", "yeast"},
		Steps:       []string{"mix", "prove", "bake"},
	}
	require.NoError(t, repo.Create(context.Background(), &recipe))

	got, err := repo.FindByID(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", got.Title)
	assert.Equal(t, []string{"flour", "water", "yeast"}, []string(got.Ingredients))
	assert.Equal(t, []string{"mix", "prove", "bake"}, []string(got.Steps))
}

func TestRepositoryListLatestOrdersAndFilters(t *testing.T) {
	db := setupRecipesTestDB(t)
	repo := NewRepository(db)
	author := seedUser(t, db, "ada")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	oldest := seedRecipe(t, db, author.ID, "oldest", base)
	middle := seedRecipe(t, db, author.ID, "middle", base.Add(time.Hour))
	newest := seedRecipe(t, db, author.ID, "newest", base.Add(2*time.Hour))

	rows, err := repo.ListLatest(context.Background(), nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, newest.ID, rows[0].Recipe.ID)
	assert.Equal(t, middle.ID, rows[1].Recipe.ID)
	assert.Equal(t, oldest.ID, rows[2].Recipe.ID)
	assert.Equal(t, "ada", rows[0].AuthorUsername)

	cursorAt, err := repo.FindUpdatedAt(context.Background(), middle.ID)
	require.NoError(t, err)
	rows, err = repo.ListLatest(context.Background(), &cursorAt, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, oldest.ID, rows[0].Recipe.ID)
}

func TestRepositoryExcludedRecipeIDsUnionsFavoritesAndCollections(t *testing.T) {
	db := setupRecipesTestDB(t)
	repo := NewRepository(db)
	caller := seedUser(t, db, "caller")
	other := seedUser(t, db, "other")

	now := time.Now().UTC()
	favorited := seedRecipe(t, db, other.ID, "favorited", now)
	shelved := seedRecipe(t, db, other.ID, "shelved", now)
	both := seedRecipe(t, db, other.ID, "both", now)
	seedRecipe(t, db, other.ID, "untouched", now)

	require.NoError(t, db.Create(&models.Favorite{ID: uuid.New(), UserID: caller.ID, RecipeID: favorited.ID}).Error)
	require.NoError(t, db.Create(&models.Favorite{ID: uuid.New(), UserID: caller.ID, RecipeID: both.ID}).Error)

	collection := models.Collection{ID: uuid.New(), UserID: caller.ID, Name: "weeknight"}
	require.NoError(t, db.Create(&collection).Error)
	require.NoError(t, db.Create(&models.CollectionRecipe{ID: uuid.New(), CollectionID: collection.ID, RecipeID: shelved.ID}).Error)
	require.NoError(t, db.Create(&models.CollectionRecipe{ID: uuid.New(), CollectionID: collection.ID, RecipeID: both.ID}).Error)

	// Someone else's collection must not leak into the caller's exclusions.
	otherCollection := models.Collection{ID: uuid.New(), UserID: other.ID, Name: "theirs"}
	require.NoError(t, db.Create(&otherCollection).Error)

	ids, err := repo.ExcludedRecipeIDs(context.Background(), caller.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{favorited.ID, shelved.ID, both.ID}, ids)
}

func TestRepositoryListDiscoverCandidatesSkipsAuthorAndExcluded(t *testing.T) {
	db := setupRecipesTestDB(t)
	repo := NewRepository(db)
	caller := seedUser(t, db, "caller")
	other := seedUser(t, db, "other")

	now := time.Now().UTC()
	seedRecipe(t, db, caller.ID, "mine", now)
	excluded := seedRecipe(t, db, other.ID, "excluded", now)
	fresh := seedRecipe(t, db, other.ID, "fresh", now.Add(time.Minute))

	rows, err := repo.ListDiscoverCandidates(context.Background(), caller.ID, []uuid.UUID{excluded.ID}, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fresh.ID, rows[0].Recipe.ID)
	assert.Equal(t, "other", rows[0].AuthorUsername)
}

func TestRepositoryDeleteCascadeRemovesDependents(t *testing.T) {
	db := setupRecipesTestDB(t)
	repo := NewRepository(db)
	author := seedUser(t, db, "ada")
	fan := seedUser(t, db, "fan")

	recipe := seedRecipe(t, db, author.ID, "doomed", time.Now().UTC())
	keeper := seedRecipe(t, db, author.ID, "keeper", time.Now().UTC())

	require.NoError(t, db.Create(&models.Favorite{ID: uuid.New(), UserID: fan.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.Rating{ID: uuid.New(), UserID: fan.ID, RecipeID: recipe.ID, Stars: 5}).Error)
	collection := models.Collection{ID: uuid.New(), UserID: fan.ID, Name: "faves"}
	require.NoError(t, db.Create(&collection).Error)
	require.NoError(t, db.Create(&models.CollectionRecipe{ID: uuid.New(), CollectionID: collection.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.Favorite{ID: uuid.New(), UserID: fan.ID, RecipeID: keeper.ID}).Error)

	require.NoError(t, repo.DeleteCascade(context.Background(), recipe.ID))

	_, err := repo.FindByID(context.Background(), recipe.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var favorites, ratings, links int64
	require.NoError(t, db.Model(&models.Favorite{}).Where("recipe_id = ?", recipe.ID).Count(&favorites).Error)
	require.NoError(t, db.Model(&models.Rating{}).Where("recipe_id = ?", recipe.ID).Count(&ratings).Error)
	require.NoError(t, db.Model(&models.CollectionRecipe{}).Where("recipe_id = ?", recipe.ID).Count(&links).Error)
	assert.Zero(t, favorites)
	assert.Zero(t, ratings)
	assert.Zero(t, links)

	var kept int64
	require.NoError(t, db.Model(&models.Favorite{}).Where("recipe_id = ?", keeper.ID).Count(&kept).Error)
	assert.EqualValues(t, 1, kept)
}
