package controllers

import (
	"net/http"

	"github.com/feen1e/recipe-app-backend/api/responses"
	"github.com/feen1e/recipe-app-backend/internal/uploads"
	"github.com/feen1e/recipe-app-backend/pkg/enums"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/feen1e/recipe-app-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// UploadImage stores a multipart image under the named bucket and returns
// its public URL. The file field must be named "file".
func UploadImage(svc uploads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		kind, err := enums.ParseUploadKind(chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid upload kind"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, uploads.MaxUploadBytes)
		if err := r.ParseMultipartForm(uploads.MaxUploadBytes); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file exceeds the upload size limit"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		out, err := svc.SaveImage(ctx, kind, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}
