package content

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Status values understood by content adapters. Collaborating stores
// may expose richer state; these are the transitions the moderation
// engine drives.
const (
	StatusPublished     = "published"
	StatusPendingReview = "pending_review"
	StatusHidden        = "hidden"
)

// Adapter gives the moderation engine control over one kind of content.
// One adapter is registered per content type; the engine never touches
// content storage directly.
type Adapter interface {
	UpdateStatus(ctx context.Context, contentID string, status string) error
	Delete(ctx context.Context, contentID string) error
}

// Registry maps content type keys to their adapters. Unknown types are
// a logged no-op, so new content types can ship before the engine
// learns about them.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates an empty adapter registry
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds or replaces the adapter for a content type
func (r *Registry) Register(contentType string, adapter Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[contentType] = adapter
}

// Lookup returns the adapter for a content type, if any
func (r *Registry) Lookup(contentType string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[contentType]
	return a, ok
}

// Types returns the registered content type keys
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.adapters))
	for t := range r.adapters {
		types = append(types, t)
	}
	return types
}

// UpdateStatus dispatches a status change to the matching adapter.
// Unknown content types are skipped with a warning.
func (r *Registry) UpdateStatus(ctx context.Context, contentType, contentID, status string) error {
	adapter, ok := r.Lookup(contentType)
	if !ok {
		log.Warn().
			Str("content_type", contentType).
			Str("content_id", contentID).
			Msg("No content adapter registered, skipping status update")
		return nil
	}
	return adapter.UpdateStatus(ctx, contentID, status)
}

// Delete dispatches a delete to the matching adapter. Unknown content
// types are skipped with a warning.
func (r *Registry) Delete(ctx context.Context, contentType, contentID string) error {
	adapter, ok := r.Lookup(contentType)
	if !ok {
		log.Warn().
			Str("content_type", contentType).
			Str("content_id", contentID).
			Msg("No content adapter registered, skipping delete")
		return nil
	}
	return adapter.Delete(ctx, contentID)
}
