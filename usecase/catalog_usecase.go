package usecase

import (
	"context"
	"fmt"
	"sort"

	"tubemetrics/domain/apperrors"
	"tubemetrics/domain/model"
	"tubemetrics/domain/repository"

	"golang.org/x/sync/errgroup"
)

// Cache keys for the logical queries this client issues.
const (
	cacheKeyWatchHistory    = "watch_history"
	cacheKeyRecommendations = "recommendations"
	cacheKeyPersonalized    = "personalized_recommendations"
	cacheKeyCategories      = "categories"
	videoCacheKeyPrefix     = "video_"
)

// personalizedLimit caps the personalized recommendation list.
const personalizedLimit = 30

// topCategoryCount is how many history categories feed the personalized
// fetch; recommendations proper use only the single most frequent one.
const topCategoryCount = 3

// ICatalogUseCase is the public operation set consumed by the presentation
// layer. Empty sequences are valid "no data" results, not errors.
type ICatalogUseCase interface {
	GetWatchHistory(ctx context.Context) ([]model.VideoSummary, error)
	GetVideoDetails(ctx context.Context, videoID string) (*model.VideoSummary, error)
	GetRecommendations(ctx context.Context) ([]model.VideoSummary, error)
	GetPersonalizedRecommendations(ctx context.Context) ([]model.VideoSummary, error)
	GetVideoCategories(ctx context.Context) ([]model.VideoCategory, error)
	RemoveFromHistory(ctx context.Context, entryID string) error
	ClearCache(ctx context.Context) error
}

// CatalogUseCase orchestrates authenticated catalog reads: credential check,
// cache-aside, the single 401 refresh-retry, and the recommendation
// strategies.
type CatalogUseCase struct {
	catalog    repository.ICatalog
	creds      repository.ICredentialStore
	cache      repository.IResponseCache
	classifier *ErrorClassifier
	network    repository.IConnectivity // optional
	regionCode string
}

type CatalogOption func(*CatalogUseCase)

// WithConnectivity attaches a connectivity monitor; when it reports offline,
// operations fail fast instead of hitting the transport. Cache hits are still
// served.
func WithConnectivity(network repository.IConnectivity) CatalogOption {
	return func(u *CatalogUseCase) { u.network = network }
}

func WithRegionCode(regionCode string) CatalogOption {
	return func(u *CatalogUseCase) { u.regionCode = regionCode }
}

func NewCatalogUseCase(catalog repository.ICatalog, creds repository.ICredentialStore, cache repository.IResponseCache, classifier *ErrorClassifier, opts ...CatalogOption) ICatalogUseCase {
	u := &CatalogUseCase{
		catalog:    catalog,
		creds:      creds,
		cache:      cache,
		classifier: classifier,
		regionCode: "US",
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// GetWatchHistory returns the user's watched videos in feed order.
func (u *CatalogUseCase) GetWatchHistory(ctx context.Context) ([]model.VideoSummary, error) {
	if !u.creds.IsAuthenticated(ctx) {
		return nil, apperrors.ErrNotAuthenticated
	}

	var cached []model.VideoSummary
	if hit, err := u.cache.Get(ctx, cacheKeyWatchHistory, &cached); err == nil && hit {
		return cached, nil
	}
	if err := u.ensureOnline(ctx, "watch_history"); err != nil {
		return nil, err
	}

	var history []model.VideoSummary
	err := u.runAuthenticated(ctx, "watch_history", func(token string) error {
		ids, err := u.catalog.FetchWatchedVideoIDs(ctx, token)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			history = []model.VideoSummary{}
			return nil
		}
		videos, err := u.catalog.FetchVideosByID(ctx, ids)
		if err != nil {
			return err
		}
		history = videos
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		// An empty feed is returned as-is and not cached, so the first real
		// activity shows up immediately.
		return history, nil
	}

	_ = u.cache.Set(ctx, cacheKeyWatchHistory, history, 0)
	return history, nil
}

// GetVideoDetails fetches one video from the public data endpoint. No auth
// required.
func (u *CatalogUseCase) GetVideoDetails(ctx context.Context, videoID string) (*model.VideoSummary, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID is required")
	}

	cacheKey := videoCacheKeyPrefix + videoID
	var cached model.VideoSummary
	if hit, err := u.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}
	if err := u.ensureOnline(ctx, "video_details"); err != nil {
		return nil, err
	}

	videos, err := u.catalog.FetchVideosByID(ctx, []string{videoID})
	if err != nil {
		u.classifier.LogError(ctx, err, "video_details")
		return nil, err
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("video not found: %s", videoID)
	}

	video := videos[0]
	_ = u.cache.Set(ctx, cacheKey, video, 0)
	return &video, nil
}

// GetRecommendations returns trending videos from the single most frequent
// category in the user's history, minus anything already watched. With no
// history it falls back to the global trending chart.
func (u *CatalogUseCase) GetRecommendations(ctx context.Context) ([]model.VideoSummary, error) {
	if !u.creds.IsAuthenticated(ctx) {
		return nil, apperrors.ErrNotAuthenticated
	}

	var cached []model.VideoSummary
	if hit, err := u.cache.Get(ctx, cacheKeyRecommendations, &cached); err == nil && hit {
		return cached, nil
	}

	history, err := u.GetWatchHistory(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.ensureOnline(ctx, "recommendations"); err != nil {
		return nil, err
	}

	if len(history) == 0 {
		trending, err := u.catalog.FetchMostPopular(ctx, "")
		if err != nil {
			u.classifier.LogError(ctx, err, "recommendations")
			return nil, err
		}
		return trending, nil
	}

	topCategory := rankCategories(history)[0]
	items, err := u.catalog.FetchMostPopular(ctx, topCategory)
	if err != nil {
		u.classifier.LogError(ctx, err, "recommendations")
		return nil, err
	}
	recommendations := excludeWatched(items, history)

	_ = u.cache.Set(ctx, cacheKeyRecommendations, recommendations, 0)
	return recommendations, nil
}

// GetPersonalizedRecommendations fetches the trending chart for the user's
// top three history categories concurrently, merges the results, drops
// already-watched videos, and returns the most viewed thirty.
func (u *CatalogUseCase) GetPersonalizedRecommendations(ctx context.Context) ([]model.VideoSummary, error) {
	if !u.creds.IsAuthenticated(ctx) {
		return nil, apperrors.ErrNotAuthenticated
	}

	var cached []model.VideoSummary
	if hit, err := u.cache.Get(ctx, cacheKeyPersonalized, &cached); err == nil && hit {
		return cached, nil
	}

	history, err := u.GetWatchHistory(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.ensureOnline(ctx, "personalized_recommendations"); err != nil {
		return nil, err
	}

	if len(history) == 0 {
		trending, err := u.catalog.FetchMostPopular(ctx, "")
		if err != nil {
			u.classifier.LogError(ctx, err, "personalized_recommendations")
			return nil, err
		}
		return trending, nil
	}

	categories := rankCategories(history)
	if len(categories) > topCategoryCount {
		categories = categories[:topCategoryCount]
	}

	// One failed category fetch fails the whole operation; no partial
	// results.
	results := make([][]model.VideoSummary, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, categoryID := range categories {
		i, categoryID := i, categoryID
		g.Go(func() error {
			items, err := u.catalog.FetchMostPopular(gctx, categoryID)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		u.classifier.LogError(ctx, err, "personalized_recommendations")
		return nil, err
	}

	merged := make([]model.VideoSummary, 0)
	for _, items := range results {
		merged = append(merged, items...)
	}
	recommendations := excludeWatched(merged, history)
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].ViewCount > recommendations[j].ViewCount
	})
	if len(recommendations) > personalizedLimit {
		recommendations = recommendations[:personalizedLimit]
	}

	_ = u.cache.Set(ctx, cacheKeyPersonalized, recommendations, 0)
	return recommendations, nil
}

// GetVideoCategories lists the provider's categories for the configured
// region. No auth required.
func (u *CatalogUseCase) GetVideoCategories(ctx context.Context) ([]model.VideoCategory, error) {
	var cached []model.VideoCategory
	if hit, err := u.cache.Get(ctx, cacheKeyCategories, &cached); err == nil && hit {
		return cached, nil
	}
	if err := u.ensureOnline(ctx, "categories"); err != nil {
		return nil, err
	}

	categories, err := u.catalog.FetchVideoCategories(ctx, u.regionCode)
	if err != nil {
		u.classifier.LogError(ctx, err, "categories")
		return nil, err
	}

	_ = u.cache.Set(ctx, cacheKeyCategories, categories, 0)
	return categories, nil
}

// RemoveFromHistory deletes a history entry server-side, best effort, and
// always invalidates the cached history so the next read refetches ground
// truth.
func (u *CatalogUseCase) RemoveFromHistory(ctx context.Context, entryID string) error {
	if entryID == "" {
		return fmt.Errorf("history entry ID is required")
	}
	if !u.creds.IsAuthenticated(ctx) {
		return apperrors.ErrNotAuthenticated
	}

	err := u.runAuthenticated(ctx, "remove_from_history", func(token string) error {
		return u.catalog.RemoveHistoryEntry(ctx, token, entryID)
	})
	// Invalidate rather than filter: the cached collection is stale relative
	// to the mutation either way.
	_ = u.cache.Remove(ctx, cacheKeyWatchHistory)
	return err
}

// ClearCache evicts every response this client has cached.
func (u *CatalogUseCase) ClearCache(ctx context.Context) error {
	return u.cache.Clear(ctx)
}

// runAuthenticated runs fn with the current access token and retries the
// whole operation exactly once after a successful refresh when the API
// answers 401. A failed refresh maps to ErrAuthExpired with no further
// retries.
func (u *CatalogUseCase) runAuthenticated(ctx context.Context, op string, fn func(token string) error) error {
	token := u.creds.CurrentToken(ctx)
	if token == "" {
		return apperrors.ErrNotAuthenticated
	}

	err := fn(token)
	if err == nil {
		return nil
	}
	if !isUnauthorized(err) {
		u.classifier.LogError(ctx, err, op)
		return err
	}

	cred, refreshErr := u.creds.Refresh(ctx)
	if refreshErr != nil {
		u.classifier.LogError(ctx, refreshErr, op+"_refresh")
		return refreshErr
	}
	if cred == nil || cred.AccessToken == "" {
		u.classifier.LogError(ctx, err, op)
		return apperrors.ErrAuthExpired
	}

	if retryErr := fn(cred.AccessToken); retryErr != nil {
		u.classifier.LogError(ctx, retryErr, op)
		return retryErr
	}
	return nil
}

// ensureOnline fails fast when a connectivity monitor reports the network as
// down.
func (u *CatalogUseCase) ensureOnline(ctx context.Context, op string) error {
	if u.network != nil && !u.network.Online() {
		u.classifier.LogError(ctx, apperrors.ErrOffline, op)
		return apperrors.ErrOffline
	}
	return nil
}

// rankCategories orders the distinct categories in history by descending
// frequency; ties keep first-seen order. History is never empty here.
func rankCategories(history []model.VideoSummary) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, video := range history {
		if counts[video.CategoryID] == 0 {
			order = append(order, video.CategoryID)
		}
		counts[video.CategoryID]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

// excludeWatched drops any candidate whose ID appears in history.
func excludeWatched(candidates, history []model.VideoSummary) []model.VideoSummary {
	watched := make(map[string]struct{}, len(history))
	for _, video := range history {
		watched[video.ID] = struct{}{}
	}
	kept := make([]model.VideoSummary, 0, len(candidates))
	for _, video := range candidates {
		if _, ok := watched[video.ID]; !ok {
			kept = append(kept, video)
		}
	}
	return kept
}
