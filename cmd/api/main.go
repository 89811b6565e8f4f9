package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/feen1e/recipe-app-backend/api/controllers"
	"github.com/feen1e/recipe-app-backend/api/routes"
	"github.com/feen1e/recipe-app-backend/internal/auth"
	"github.com/feen1e/recipe-app-backend/internal/collections"
	"github.com/feen1e/recipe-app-backend/internal/favorites"
	"github.com/feen1e/recipe-app-backend/internal/identity"
	"github.com/feen1e/recipe-app-backend/internal/ratings"
	"github.com/feen1e/recipe-app-backend/internal/recipes"
	"github.com/feen1e/recipe-app-backend/internal/uploads"
	"github.com/feen1e/recipe-app-backend/internal/users"
	"github.com/feen1e/recipe-app-backend/pkg/config"
	"github.com/feen1e/recipe-app-backend/pkg/db"
	"github.com/feen1e/recipe-app-backend/pkg/logger"
	"github.com/feen1e/recipe-app-backend/pkg/metrics"
	"github.com/feen1e/recipe-app-backend/pkg/migrate"
	"github.com/feen1e/recipe-app-backend/pkg/redis"
	"github.com/feen1e/recipe-app-backend/pkg/storage/disk"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{"database": dbClient}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		readiness["redis"] = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, auth rate limiting disabled")
	}

	uploadStore, err := disk.New(cfg.Uploads.Dir)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare upload storage", err)
		os.Exit(1)
	}
	cleanup := uploads.NewCleanup(uploadStore, logg)
	baseURL := cfg.App.BaseURL()

	userRepo := users.NewRepository(dbClient.DB())
	recipeRepo := recipes.NewRepository(dbClient.DB())
	ratingRepo := ratings.NewRepository(dbClient.DB())
	collectionRepo := collections.NewRepository(dbClient.DB())
	favoriteRepo := favorites.NewRepository(dbClient.DB())

	resolver, err := identity.NewResolver(identity.ServiceParams{
		JWT:      cfg.JWT,
		UserRepo: userRepo,
	})
	requireResource(logg, "identity resolver", err)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo: userRepo,
		JWT:      cfg.JWT,
		Password: cfg.Password,
	})
	requireResource(logg, "auth service", err)

	userService, err := users.NewService(users.ServiceParams{
		UserRepo: userRepo,
		Cleanup:  cleanup,
		Password: cfg.Password,
		BaseURL:  baseURL,
	})
	requireResource(logg, "user service", err)

	recipeService, err := recipes.NewService(recipes.ServiceParams{
		RecipeRepo: recipeRepo,
		UserRepo:   userRepo,
		Cleanup:    cleanup,
		BaseURL:    baseURL,
	})
	requireResource(logg, "recipe service", err)

	ratingService, err := ratings.NewService(ratings.ServiceParams{
		RatingRepo: ratingRepo,
		UserRepo:   userRepo,
	})
	requireResource(logg, "rating service", err)

	collectionService, err := collections.NewService(collections.ServiceParams{
		CollectionRepo: collectionRepo,
		UserRepo:       userRepo,
		RecipeRepo:     recipeRepo,
		BaseURL:        baseURL,
	})
	requireResource(logg, "collection service", err)

	favoriteService, err := favorites.NewService(favorites.ServiceParams{
		FavoriteRepo: favoriteRepo,
		UserRepo:     userRepo,
		RecipeRepo:   recipeRepo,
		BaseURL:      baseURL,
	})
	requireResource(logg, "favorite service", err)

	uploadService, err := uploads.NewService(uploads.ServiceParams{
		Store:   uploadStore,
		BaseURL: baseURL,
	})
	requireResource(logg, "upload service", err)

	httpMetrics := metrics.NewHTTPMetrics("api")

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, httpMetrics, resolver, redisClient, readiness, routes.Services{
			Auth:        authService,
			Users:       userService,
			Recipes:     recipeService,
			Ratings:     ratingService,
			Collections: collectionService,
			Favorites:   favoriteService,
			Uploads:     uploadService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}
