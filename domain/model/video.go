package model

import "time"

// VideoSummary is the normalized projection of a raw catalog item. It is
// derived on every fetch and never persisted outside the response cache.
type VideoSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Channel      string    `json:"channel"`
	ThumbnailURL string    `json:"thumbnail"`
	CategoryID   string    `json:"category"`
	Duration     string    `json:"duration"` // ISO 8601, e.g. PT4M13S
	ViewCount    int64     `json:"view_count"`
	Description  string    `json:"description"`
	PublishedAt  time.Time `json:"published_at"`
}

// VideoCategory represents a provider-defined video classification.
type VideoCategory struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
