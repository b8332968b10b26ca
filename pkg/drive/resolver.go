package drive

import (
	"context"
	"strings"

	"course-material-bot/internal/pkg/logger"
)

// Resolver walks folder-name chains from a fixed root. All reads are
// fail-soft: a remote error during resolution or listing is treated the
// same as an absent folder, and logged at WARN. Retry policy, if any,
// belongs to the caller.
type Resolver struct {
	store  RemoteStore
	rootID string
	log    logger.ILogger
}

func NewResolver(store RemoteStore, rootID string, log logger.ILogger) *Resolver {
	return &Resolver{
		store:  store,
		rootID: rootID,
		log:    log,
	}
}

// ResolveFolder resolves the ordered segment chain to a folder id,
// strictly left to right. A miss at any segment aborts the resolution.
func (r *Resolver) ResolveFolder(ctx context.Context, segments []string) (string, bool) {
	currentID := r.rootID
	for _, segment := range segments {
		nextID, err := r.store.FindChildFolder(ctx, currentID, segment)
		if err != nil {
			r.log.Warn("resolver", "segment lookup failed", map[string]interface{}{
				"segment": segment,
				"path":    strings.Join(segments, "/"),
				"error":   err.Error(),
			})
			return "", false
		}
		if nextID == "" {
			r.log.Warn("resolver", "folder segment not found", map[string]interface{}{
				"segment": segment,
				"path":    strings.Join(segments, "/"),
			})
			return "", false
		}
		currentID = nextID
	}
	return currentID, true
}

// ListChildFolders returns the immediate child folder names of a resolved
// folder, or an empty slice on miss or remote error.
func (r *Resolver) ListChildFolders(ctx context.Context, folderID string) []string {
	names, err := r.store.ListChildFolders(ctx, folderID)
	if err != nil {
		r.log.Warn("resolver", "child folder listing failed", map[string]interface{}{
			"folder_id": folderID,
			"error":     err.Error(),
		})
		return []string{}
	}
	return names
}
