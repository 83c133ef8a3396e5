package model

import "time"

// UsageDateLayout is the calendar-day key format for usage entries.
const UsageDateLayout = "2006-01-02"

// UsageDay is one calendar day's aggregated playback activity.
type UsageDay struct {
	Date          string `json:"date"` // ISO date, UsageDateLayout
	WatchTime     int    `json:"watch_time"` // whole minutes
	VideosWatched int    `json:"videos_watched"`
}

// UsageStats is the persisted usage document. Daily entries older than 30
// days are pruned on every write; the totals keep accumulating until a reset.
type UsageStats struct {
	DailyUsage     []UsageDay `json:"daily_usage"`
	TotalWatchTime int        `json:"total_watch_time"`
	TotalVideos    int        `json:"total_videos"`
	LastUpdated    time.Time  `json:"last_updated"`
}

// TotalWatchTime sums watch minutes over a range of days.
func TotalWatchTime(days []UsageDay) int {
	total := 0
	for _, d := range days {
		total += d.WatchTime
	}
	return total
}

// TotalVideos sums watched-video counts over a range of days.
func TotalVideos(days []UsageDay) int {
	total := 0
	for _, d := range days {
		total += d.VideosWatched
	}
	return total
}

// AverageWatchTime returns the mean watch minutes per day over a range.
func AverageWatchTime(days []UsageDay) float64 {
	if len(days) == 0 {
		return 0
	}
	return float64(TotalWatchTime(days)) / float64(len(days))
}
