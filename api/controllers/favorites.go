package controllers

import (
	"net/http"

	"github.com/feen1e/recipe-app-backend/api/middleware"
	"github.com/feen1e/recipe-app-backend/api/responses"
	"github.com/feen1e/recipe-app-backend/internal/favorites"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/feen1e/recipe-app-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// FavoritesByUser returns the recipes the named user has favorited.
func FavoritesByUser(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorite service unavailable"))
			return
		}

		out, err := svc.ListByUsername(ctx, chi.URLParam(r, "username"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// FavoriteAdd favorites a recipe for the caller.
func FavoriteAdd(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorite service unavailable"))
			return
		}

		caller, ok := middleware.CallerFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "User not authenticated"))
			return
		}

		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid recipe id"))
			return
		}

		out, err := svc.Add(ctx, caller.ID, recipeID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

// FavoriteRemove unfavorites a recipe for the caller.
func FavoriteRemove(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorite service unavailable"))
			return
		}

		caller, ok := middleware.CallerFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "User not authenticated"))
			return
		}

		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid recipe id"))
			return
		}

		if err := svc.Remove(ctx, caller.ID, recipeID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Recipe removed from favorites"})
	}
}
