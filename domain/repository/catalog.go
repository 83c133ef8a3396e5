package repository

import (
	"context"

	"tubemetrics/domain/model"
)

// ICatalog is the transport boundary to the external video catalog API.
// User-scoped operations take the bearer access token explicitly; the other
// operations run on the API key alone.
type ICatalog interface {
	// FetchWatchedVideoIDs returns the upload video IDs from the user's
	// activity feed, preserving feed order.
	FetchWatchedVideoIDs(ctx context.Context, accessToken string) ([]string, error)
	// FetchVideosByID batch-fetches full details for the given IDs in one
	// call, returning them in the order of ids.
	FetchVideosByID(ctx context.Context, ids []string) ([]model.VideoSummary, error)
	// FetchMostPopular returns the trending chart, restricted to a category
	// when categoryID is non-empty.
	FetchMostPopular(ctx context.Context, categoryID string) ([]model.VideoSummary, error)
	// FetchVideoCategories lists the provider's categories for a region.
	FetchVideoCategories(ctx context.Context, regionCode string) ([]model.VideoCategory, error)
	// RemoveHistoryEntry deletes a history entry server-side. Best effort.
	RemoveHistoryEntry(ctx context.Context, accessToken, entryID string) error
}
