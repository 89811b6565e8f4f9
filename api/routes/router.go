package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/feen1e/recipe-app-backend/api/controllers"
	"github.com/feen1e/recipe-app-backend/api/middleware"
	"github.com/feen1e/recipe-app-backend/internal/auth"
	"github.com/feen1e/recipe-app-backend/internal/collections"
	"github.com/feen1e/recipe-app-backend/internal/favorites"
	"github.com/feen1e/recipe-app-backend/internal/identity"
	"github.com/feen1e/recipe-app-backend/internal/ratings"
	"github.com/feen1e/recipe-app-backend/internal/recipes"
	"github.com/feen1e/recipe-app-backend/internal/uploads"
	"github.com/feen1e/recipe-app-backend/internal/users"
	"github.com/feen1e/recipe-app-backend/pkg/config"
	"github.com/feen1e/recipe-app-backend/pkg/enums"
	"github.com/feen1e/recipe-app-backend/pkg/logger"
	"github.com/feen1e/recipe-app-backend/pkg/metrics"
	"github.com/feen1e/recipe-app-backend/pkg/redis"
)

// Services groups every domain service the router wires up.
type Services struct {
	Auth        auth.Service
	Users       users.Service
	Recipes     recipes.Service
	Ratings     ratings.Service
	Collections collections.Service
	Favorites   favorites.Service
	Uploads     uploads.Service
}

// NewRouter assembles the HTTP surface: public reads, rate-limited auth
// endpoints, authenticated mutations, static upload serving and the
// operational endpoints.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	resolver identity.Resolver,
	redisClient *redis.Client,
	readiness map[string]controllers.Pinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	loginLimiter := middleware.AuthRateLimit(loginPolicy, nil, logg)
	registerLimiter := middleware.AuthRateLimit(registerPolicy, nil, logg)
	if redisClient != nil {
		loginLimiter = middleware.AuthRateLimit(loginPolicy, redisClient, logg)
		registerLimiter = middleware.AuthRateLimit(registerPolicy, redisClient, logg)
	}

	requireAuth := middleware.Auth(resolver, logg)
	optionalAuth := middleware.OptionalAuth(resolver, logg)
	requireAdmin := middleware.RequireRole(enums.UserRoleAdmin, logg)

	r.Route("/auth", func(r chi.Router) {
		r.With(registerLimiter).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(loginLimiter).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(requireAuth).Get("/me", controllers.AuthMe(svcs.Auth, logg))
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/{username}", controllers.UserProfile(svcs.Users, logg))
		r.With(requireAuth).Patch("/", controllers.UserUpdateSelf(svcs.Users, logg))
		r.With(requireAuth, requireAdmin).Post("/", controllers.UserAdminCreate(svcs.Users, logg))
		r.With(requireAuth, requireAdmin).Patch("/{email}", controllers.UserAdminUpdate(svcs.Users, logg))
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", controllers.RecipesList(svcs.Recipes, logg))
		r.Get("/latest", controllers.RecipesLatest(svcs.Recipes, logg))
		r.With(optionalAuth).Get("/discover", controllers.RecipesDiscover(svcs.Recipes, logg))
		r.Get("/user/{username}", controllers.RecipesByUser(svcs.Recipes, logg))
		r.Get("/{id}", controllers.RecipeGet(svcs.Recipes, logg))
		r.With(requireAuth).Post("/", controllers.RecipeCreate(svcs.Recipes, logg))
		r.With(requireAuth).Patch("/{id}", controllers.RecipeUpdate(svcs.Recipes, logg))
		r.With(requireAuth).Delete("/{id}", controllers.RecipeDelete(svcs.Recipes, logg))
	})

	r.Route("/ratings", func(r chi.Router) {
		r.Get("/", controllers.RatingsList(svcs.Ratings, logg))
		r.Get("/user/{username}", controllers.RatingsByUser(svcs.Ratings, logg))
		r.Get("/{id}", controllers.RatingGet(svcs.Ratings, logg))
		r.With(requireAuth).Post("/", controllers.RatingCreate(svcs.Ratings, logg))
		r.With(requireAuth).Patch("/{id}", controllers.RatingUpdate(svcs.Ratings, logg))
		r.With(requireAuth).Delete("/{id}", controllers.RatingDelete(svcs.Ratings, logg))
	})

	r.Route("/collections", func(r chi.Router) {
		r.Get("/", controllers.CollectionsList(svcs.Collections, logg))
		r.Get("/user/{username}", controllers.CollectionsByUser(svcs.Collections, logg))
		r.Get("/{id}", controllers.CollectionGet(svcs.Collections, logg))
		r.With(requireAuth).Post("/", controllers.CollectionCreate(svcs.Collections, logg))
		r.With(requireAuth).Patch("/{id}", controllers.CollectionUpdate(svcs.Collections, logg))
		r.With(requireAuth).Delete("/{id}", controllers.CollectionDelete(svcs.Collections, logg))
		r.With(requireAuth).Post("/{id}/recipes", controllers.CollectionAddRecipe(svcs.Collections, logg))
	})

	r.Route("/favorites", func(r chi.Router) {
		r.Get("/{username}", controllers.FavoritesByUser(svcs.Favorites, logg))
		r.With(requireAuth).Post("/{recipeId}", controllers.FavoriteAdd(svcs.Favorites, logg))
		r.With(requireAuth).Delete("/{recipeId}", controllers.FavoriteRemove(svcs.Favorites, logg))
	})

	r.With(requireAuth).Post("/uploads/{kind}", controllers.UploadImage(svcs.Uploads, logg))
	r.Method(http.MethodGet, "/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.Dir))))

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, readiness))
	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	return r
}
