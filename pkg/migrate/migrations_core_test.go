package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/feen1e/recipe-app-backend/pkg/migrate"
)

func TestCoreMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_core_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no core tables migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CONSTRAINT users_username_key UNIQUE (username)",
		"CONSTRAINT users_email_key UNIQUE (email)",
		"CREATE TABLE IF NOT EXISTS recipes",
		"FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE",
		"CREATE TABLE IF NOT EXISTS ratings",
		"CHECK (stars >= 1 AND stars <= 5)",
		"CONSTRAINT favorites_user_recipe_key UNIQUE (user_id, recipe_id)",
		"CONSTRAINT collection_recipes_collection_recipe_key UNIQUE (collection_id, recipe_id)",
		"DROP TABLE IF EXISTS users",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}

	// ratings deliberately carry no unique (user_id, recipe_id) constraint
	if strings.Contains(content, "ratings_user_recipe_key") {
		t.Errorf("ratings must allow repeat ratings from the same user")
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
