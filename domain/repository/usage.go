package repository

import (
	"context"
	"time"

	"tubemetrics/domain/model"
)

// IUsageLedger is the append-only, day-bucketed record of playback activity.
type IUsageLedger interface {
	// RecordUsage accumulates watch minutes and video counts into today's
	// entry, prunes entries older than 30 days and persists the document.
	RecordUsage(ctx context.Context, watchTimeMinutes, videosWatched int) (*model.UsageStats, error)
	// GetStats returns the whole persisted document (empty on cold start).
	GetStats(ctx context.Context) (*model.UsageStats, error)
	// GetRange returns the days within [start, end], ascending by date.
	GetRange(ctx context.Context, start, end time.Time) ([]model.UsageDay, error)
	// Reset clears all usage data back to the empty state.
	Reset(ctx context.Context) error
}
