package youtube

import (
	"context"
	"fmt"
	"time"

	"tubemetrics/domain/model"
	"tubemetrics/domain/repository"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// videoParts are the parts needed to build a VideoSummary.
var videoParts = []string{"snippet", "contentDetails", "statistics"}

const defaultChartSize = 25

// Client implements the catalog transport on the YouTube Data API v3. The
// service is created in API-key mode; user-scoped calls attach the bearer
// token per request so the credential lifecycle stays with the caller.
type Client struct {
	service    *youtube.Service
	regionCode string
}

// NewCatalogClient creates a catalog client. Extra options (endpoint
// overrides) are mainly for tests.
func NewCatalogClient(ctx context.Context, apiKey, regionCode string, opts ...option.ClientOption) (repository.ICatalog, error) {
	allOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, allOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	if regionCode == "" {
		regionCode = "US"
	}
	return &Client{service: service, regionCode: regionCode}, nil
}

// FetchWatchedVideoIDs pulls the authenticated user's activity feed and
// returns the upload video IDs in feed order.
func (c *Client) FetchWatchedVideoIDs(ctx context.Context, accessToken string) ([]string, error) {
	call := c.service.Activities.List([]string{"snippet", "contentDetails"}).Mine(true)
	call.Header().Set("Authorization", "Bearer "+accessToken)

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get activity feed: %w", err)
	}

	ids := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if item.ContentDetails != nil && item.ContentDetails.Upload != nil && item.ContentDetails.Upload.VideoId != "" {
			ids = append(ids, item.ContentDetails.Upload.VideoId)
		}
	}
	return ids, nil
}

// FetchVideosByID batch-fetches details for the given IDs in one call. The
// API does not guarantee response order, so results are re-ordered to match
// ids.
func (c *Client) FetchVideosByID(ctx context.Context, ids []string) ([]model.VideoSummary, error) {
	if len(ids) == 0 {
		return []model.VideoSummary{}, nil
	}
	response, err := c.service.Videos.List(videoParts).Id(ids...).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}

	byID := make(map[string]model.VideoSummary, len(response.Items))
	for _, video := range response.Items {
		byID[video.Id] = convertToVideoSummary(video)
	}
	videos := make([]model.VideoSummary, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			videos = append(videos, v)
		}
	}
	return videos, nil
}

// FetchMostPopular returns the trending chart, restricted to a category when
// categoryID is non-empty.
func (c *Client) FetchMostPopular(ctx context.Context, categoryID string) ([]model.VideoSummary, error) {
	call := c.service.Videos.List(videoParts).
		Chart("mostPopular").
		RegionCode(c.regionCode).
		MaxResults(defaultChartSize)
	if categoryID != "" {
		call = call.VideoCategoryId(categoryID)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get trending videos: %w", err)
	}

	videos := make([]model.VideoSummary, 0, len(response.Items))
	for _, video := range response.Items {
		videos = append(videos, convertToVideoSummary(video))
	}
	return videos, nil
}

// FetchVideoCategories lists the provider's categories for a region.
func (c *Client) FetchVideoCategories(ctx context.Context, regionCode string) ([]model.VideoCategory, error) {
	if regionCode == "" {
		regionCode = c.regionCode
	}
	response, err := c.service.VideoCategories.List([]string{"snippet"}).RegionCode(regionCode).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video categories: %w", err)
	}

	categories := make([]model.VideoCategory, 0, len(response.Items))
	for _, item := range response.Items {
		category := model.VideoCategory{ID: item.Id}
		if item.Snippet != nil {
			category.Title = item.Snippet.Title
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// RemoveHistoryEntry deletes a history entry server-side. Best effort; the
// caller owns cache invalidation.
func (c *Client) RemoveHistoryEntry(ctx context.Context, accessToken, entryID string) error {
	if entryID == "" {
		return fmt.Errorf("history entry ID is required")
	}
	call := c.service.PlaylistItems.Delete(entryID)
	call.Header().Set("Authorization", "Bearer "+accessToken)
	if err := call.Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to remove history entry: %w", err)
	}
	return nil
}

// convertToVideoSummary normalizes an API video into the model projection.
func convertToVideoSummary(video *youtube.Video) model.VideoSummary {
	summary := model.VideoSummary{ID: video.Id}

	if video.Snippet != nil {
		summary.Title = video.Snippet.Title
		summary.Channel = video.Snippet.ChannelTitle
		summary.CategoryID = video.Snippet.CategoryId
		summary.Description = video.Snippet.Description
		if publishedAt, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt); err == nil {
			summary.PublishedAt = publishedAt
		}
		if video.Snippet.Thumbnails != nil {
			if video.Snippet.Thumbnails.Medium != nil {
				summary.ThumbnailURL = video.Snippet.Thumbnails.Medium.Url
			} else if video.Snippet.Thumbnails.Default != nil {
				summary.ThumbnailURL = video.Snippet.Thumbnails.Default.Url
			}
		}
	}
	if video.ContentDetails != nil {
		summary.Duration = video.ContentDetails.Duration
	}
	if video.Statistics != nil {
		summary.ViewCount = int64(video.Statistics.ViewCount)
	}

	return summary
}
