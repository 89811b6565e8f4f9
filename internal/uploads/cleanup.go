package uploads

import (
	"context"
	"strings"

	"github.com/feen1e/recipe-app-backend/pkg/logger"
)

type fileRemover interface {
	Delete(rel string) error
}

// Cleanup deletes orphaned upload files when an image reference changes.
// Deletion is best-effort: failures are logged and never surfaced, a stale
// file on disk is preferable to a failed profile update.
type Cleanup struct {
	store fileRemover
	logg  *logger.Logger
}

// NewCleanup builds the cleanup collaborator.
func NewCleanup(store fileRemover, logg *logger.Logger) *Cleanup {
	return &Cleanup{store: store, logg: logg}
}

// Remove deletes the stored file reference if it is non-blank.
func (c *Cleanup) Remove(ctx context.Context, stored string) {
	if c == nil || c.store == nil {
		return
	}
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return
	}
	if err := c.store.Delete(stored); err != nil && c.logg != nil {
		logCtx := c.logg.WithFields(ctx, map[string]any{"file": stored, "error": err.Error()})
		c.logg.Warn(logCtx, "upload.cleanup.failed")
	}
}
