package usecase

import (
	"context"
	"fmt"
	"time"

	"tubemetrics/domain/model"
	"tubemetrics/domain/repository"
)

// IAnalyticsUseCase exposes the usage ledger to playback-tracking callers and
// the presentation layer.
type IAnalyticsUseCase interface {
	RecordUsage(ctx context.Context, watchTimeMinutes, videosWatched int) (*model.UsageStats, error)
	RecordWatchTime(ctx context.Context, watchTimeMinutes int) (*model.UsageStats, error)
	GetStats(ctx context.Context) (*model.UsageStats, error)
	GetRange(ctx context.Context, start, end time.Time) ([]model.UsageDay, error)
	Reset(ctx context.Context) error
}

// AnalyticsUseCase wraps the usage ledger with input validation. The ledger
// does not interpret why usage occurred.
type AnalyticsUseCase struct {
	ledger repository.IUsageLedger
}

func NewAnalyticsUseCase(ledger repository.IUsageLedger) IAnalyticsUseCase {
	return &AnalyticsUseCase{ledger: ledger}
}

func (u *AnalyticsUseCase) RecordUsage(ctx context.Context, watchTimeMinutes, videosWatched int) (*model.UsageStats, error) {
	if watchTimeMinutes < 0 {
		return nil, fmt.Errorf("watch time must be non-negative: %d", watchTimeMinutes)
	}
	if videosWatched < 0 {
		return nil, fmt.Errorf("video count must be non-negative: %d", videosWatched)
	}
	return u.ledger.RecordUsage(ctx, watchTimeMinutes, videosWatched)
}

// RecordWatchTime records watch minutes for a single video, the common case
// for playback reporters.
func (u *AnalyticsUseCase) RecordWatchTime(ctx context.Context, watchTimeMinutes int) (*model.UsageStats, error) {
	return u.RecordUsage(ctx, watchTimeMinutes, 1)
}

func (u *AnalyticsUseCase) GetStats(ctx context.Context) (*model.UsageStats, error) {
	return u.ledger.GetStats(ctx)
}

func (u *AnalyticsUseCase) GetRange(ctx context.Context, start, end time.Time) ([]model.UsageDay, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s is before start %s", end.Format(model.UsageDateLayout), start.Format(model.UsageDateLayout))
	}
	return u.ledger.GetRange(ctx, start, end)
}

func (u *AnalyticsUseCase) Reset(ctx context.Context) error {
	return u.ledger.Reset(ctx)
}
