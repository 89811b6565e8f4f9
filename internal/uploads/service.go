package uploads

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/feen1e/recipe-app-backend/pkg/enums"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/google/uuid"
)

// MaxUploadBytes caps a single image upload.
const MaxUploadBytes = 10 << 20

// UploadDTO is the public response for a stored image.
type UploadDTO struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type fileSaver interface {
	Save(rel string, r io.Reader) (string, error)
	Delete(rel string) error
}

// Service stores validated image uploads and hands back their public URLs.
type Service interface {
	SaveImage(ctx context.Context, kind enums.UploadKind, originalName, contentType string, size int64, r io.Reader) (UploadDTO, error)
}

// ServiceParams groups dependencies for the upload service.
type ServiceParams struct {
	Store   fileSaver
	BaseURL string
}

type service struct {
	store   fileSaver
	baseURL string
}

// NewService builds an upload service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "upload store is required")
	}
	return &service{store: params.Store, baseURL: params.BaseURL}, nil
}

// SaveImage validates the upload and persists it under a random filename that
// keeps the original extension. The returned filename is the relative
// reference callers store on their entity.
func (s *service) SaveImage(ctx context.Context, kind enums.UploadKind, originalName, contentType string, size int64, r io.Reader) (UploadDTO, error) {
	if !kind.IsValid() {
		return UploadDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown upload type")
	}
	if size > MaxUploadBytes {
		return UploadDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "file exceeds the 10MB limit")
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return UploadDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "only image files are allowed")
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	rel := kind.String() + "/" + uuid.NewString() + ext

	stored, err := s.store.Save(rel, io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return UploadDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store upload")
	}

	url := stored
	if mapped := PublicURL(s.baseURL, &stored); mapped != nil {
		url = *mapped
	}
	return UploadDTO{Filename: stored, URL: url}, nil
}
