package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"tubemetrics/domain/model"
	"tubemetrics/domain/repository"
	"tubemetrics/infrastructure/logger"
)

const usageStorageKey = "youtube_analytics"

// retentionDays is how long daily entries are kept; older days are pruned on
// every write.
const retentionDays = 30

// UsageRepository persists the day-bucketed usage ledger as one JSON document
// under the injected storage. Read-modify-write with no concurrent-writer
// protection: the client assumes a single logical session.
type UsageRepository struct {
	store repository.IStorage
	now   func() time.Time
}

type UsageOption func(*UsageRepository)

func WithUsageNow(now func() time.Time) UsageOption {
	return func(r *UsageRepository) { r.now = now }
}

func NewUsageRepository(store repository.IStorage, opts ...UsageOption) *UsageRepository {
	r := &UsageRepository{store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *UsageRepository) RecordUsage(ctx context.Context, watchTimeMinutes, videosWatched int) (*model.UsageStats, error) {
	if watchTimeMinutes < 0 || videosWatched < 0 {
		return nil, fmt.Errorf("usage amounts must be non-negative: watchTime=%d videos=%d", watchTimeMinutes, videosWatched)
	}

	stats, err := r.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	now := r.now()
	today := now.Format(model.UsageDateLayout)

	found := false
	for i := range stats.DailyUsage {
		if stats.DailyUsage[i].Date == today {
			stats.DailyUsage[i].WatchTime += watchTimeMinutes
			stats.DailyUsage[i].VideosWatched += videosWatched
			found = true
			break
		}
	}
	if !found {
		stats.DailyUsage = append(stats.DailyUsage, model.UsageDay{
			Date:          today,
			WatchTime:     watchTimeMinutes,
			VideosWatched: videosWatched,
		})
	}

	stats.TotalWatchTime += watchTimeMinutes
	stats.TotalVideos += videosWatched
	stats.LastUpdated = now.UTC()
	stats.DailyUsage = pruneOldDays(stats.DailyUsage, now)

	if err := r.save(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *UsageRepository) GetStats(ctx context.Context) (*model.UsageStats, error) {
	raw, ok, err := r.store.Get(ctx, usageStorageKey)
	if err != nil {
		return nil, err
	}
	stats := &model.UsageStats{DailyUsage: []model.UsageDay{}}
	if !ok {
		return stats, nil
	}
	if err := json.Unmarshal([]byte(raw), stats); err != nil {
		// Unreadable document degrades to the empty ledger.
		logger.GetLogger().WithField("error", err).Warn("usage document unreadable, starting empty")
		return &model.UsageStats{DailyUsage: []model.UsageDay{}}, nil
	}
	if stats.DailyUsage == nil {
		stats.DailyUsage = []model.UsageDay{}
	}
	return stats, nil
}

func (r *UsageRepository) GetRange(ctx context.Context, start, end time.Time) ([]model.UsageDay, error) {
	stats, err := r.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	startKey := start.Format(model.UsageDateLayout)
	endKey := end.Format(model.UsageDateLayout)

	days := make([]model.UsageDay, 0)
	for _, d := range stats.DailyUsage {
		if d.Date >= startKey && d.Date <= endKey {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

func (r *UsageRepository) Reset(ctx context.Context) error {
	stats := &model.UsageStats{DailyUsage: []model.UsageDay{}, LastUpdated: r.now().UTC()}
	return r.save(ctx, stats)
}

func (r *UsageRepository) save(ctx context.Context, stats *model.UsageStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode usage document: %w", err)
	}
	return r.store.Set(ctx, usageStorageKey, string(raw))
}

func pruneOldDays(days []model.UsageDay, now time.Time) []model.UsageDay {
	cutoff := now.AddDate(0, 0, -retentionDays).Format(model.UsageDateLayout)
	kept := days[:0]
	for _, d := range days {
		if d.Date >= cutoff {
			kept = append(kept, d)
		}
	}
	return kept
}
