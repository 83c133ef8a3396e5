package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tubemetrics/domain/apperrors"
	"tubemetrics/domain/model"
	"tubemetrics/infrastructure/cache"
	"tubemetrics/infrastructure/connectivity"
	"tubemetrics/infrastructure/persistence"
	"tubemetrics/infrastructure/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) FetchWatchedVideoIDs(ctx context.Context, accessToken string) ([]string, error) {
	args := m.Called(ctx, accessToken)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalog) FetchVideosByID(ctx context.Context, ids []string) ([]model.VideoSummary, error) {
	args := m.Called(ctx, ids)
	if v := args.Get(0); v != nil {
		return v.([]model.VideoSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalog) FetchMostPopular(ctx context.Context, categoryID string) ([]model.VideoSummary, error) {
	args := m.Called(ctx, categoryID)
	if v := args.Get(0); v != nil {
		return v.([]model.VideoSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalog) FetchVideoCategories(ctx context.Context, regionCode string) ([]model.VideoCategory, error) {
	args := m.Called(ctx, regionCode)
	if v := args.Get(0); v != nil {
		return v.([]model.VideoCategory), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalog) RemoveHistoryEntry(ctx context.Context, accessToken, entryID string) error {
	args := m.Called(ctx, accessToken, entryID)
	return args.Error(0)
}

type mockCredentialStore struct {
	mock.Mock
}

func (m *mockCredentialStore) BuildAuthorizationURL() string {
	return m.Called().String(0)
}

func (m *mockCredentialStore) ExchangeCode(ctx context.Context, code string) (*model.Credential, error) {
	args := m.Called(ctx, code)
	if v := args.Get(0); v != nil {
		return v.(*model.Credential), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCredentialStore) Refresh(ctx context.Context) (*model.Credential, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*model.Credential), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCredentialStore) CurrentToken(ctx context.Context) string {
	return m.Called(ctx).String(0)
}

func (m *mockCredentialStore) IsAuthenticated(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *mockCredentialStore) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type catalogFixture struct {
	catalog *mockCatalog
	creds   *mockCredentialStore
	cache   *cache.ResponseCache
	hub     *connectivity.Hub
	uc      ICatalogUseCase
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	store := storage.NewMemoryStorage()
	f := &catalogFixture{
		catalog: &mockCatalog{},
		creds:   &mockCredentialStore{},
		cache:   cache.NewResponseCache(store),
		hub:     connectivity.NewHub(),
	}
	classifier := NewErrorClassifier(persistence.NewErrorLogRepository(store))
	f.uc = NewCatalogUseCase(f.catalog, f.creds, f.cache, classifier,
		WithConnectivity(f.hub),
		WithRegionCode("US"))
	return f
}

func (f *catalogFixture) authenticated(token string) {
	f.creds.On("IsAuthenticated", mock.Anything).Return(true)
	f.creds.On("CurrentToken", mock.Anything).Return(token)
}

func vid(id, category string, views int64) model.VideoSummary {
	return model.VideoSummary{ID: id, Title: "Video " + id, CategoryID: category, ViewCount: views}
}

func TestGetWatchHistory_FetchesAndCaches(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.authenticated("tok")

	history := []model.VideoSummary{vid("a", "10", 100), vid("b", "24", 50)}
	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "tok").Return([]string{"a", "b"}, nil).Once()
	f.catalog.On("FetchVideosByID", mock.Anything, []string{"a", "b"}).Return(history, nil).Once()

	got, err := f.uc.GetWatchHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, history, got)

	// Second call is served from cache; the mocks allow one call each.
	got, err = f.uc.GetWatchHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, history, got)
	f.catalog.AssertExpectations(t)
}

func TestGetWatchHistory_NotAuthenticated(t *testing.T) {
	f := newCatalogFixture(t)
	f.creds.On("IsAuthenticated", mock.Anything).Return(false)

	_, err := f.uc.GetWatchHistory(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	f.catalog.AssertNotCalled(t, "FetchWatchedVideoIDs", mock.Anything, mock.Anything)
}

func TestGetWatchHistory_EmptyFeedNotCached(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.authenticated("tok")

	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "tok").Return([]string{}, nil).Twice()

	got, err := f.uc.GetWatchHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	// An empty result is not cached, so the next read fetches again.
	_, err = f.uc.GetWatchHistory(ctx)
	require.NoError(t, err)
	f.catalog.AssertExpectations(t)
	f.catalog.AssertNotCalled(t, "FetchVideosByID", mock.Anything, mock.Anything)
}

func TestGetWatchHistory_RefreshAndRetryOnce(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.authenticated("stale")

	history := []model.VideoSummary{vid("a", "10", 100)}
	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "stale").
		Return(nil, &googleapi.Error{Code: 401}).Once()
	f.creds.On("Refresh", mock.Anything).
		Return(&model.Credential{AccessToken: "fresh", RefreshToken: "r"}, nil).Once()
	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "fresh").Return([]string{"a"}, nil).Once()
	f.catalog.On("FetchVideosByID", mock.Anything, []string{"a"}).Return(history, nil).Once()

	got, err := f.uc.GetWatchHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, history, got)
	f.catalog.AssertExpectations(t)
	f.creds.AssertExpectations(t)
}

func TestGetWatchHistory_FailedRefreshMeansExpired(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.authenticated("stale")

	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "stale").
		Return(nil, &googleapi.Error{Code: 401}).Once()
	f.creds.On("Refresh", mock.Anything).Return(nil, nil).Once()

	_, err := f.uc.GetWatchHistory(ctx)
	assert.ErrorIs(t, err, apperrors.ErrAuthExpired)
	// No retry without a fresh token.
	f.catalog.AssertNumberOfCalls(t, "FetchWatchedVideoIDs", 1)
}

func TestGetWatchHistory_RetryFailurePropagates(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.authenticated("stale")

	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "stale").
		Return(nil, &googleapi.Error{Code: 401}).Once()
	f.creds.On("Refresh", mock.Anything).
		Return(&model.Credential{AccessToken: "fresh"}, nil).Once()
	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "fresh").
		Return(nil, &googleapi.Error{Code: 403}).Once()

	_, err := f.uc.GetWatchHistory(ctx)
	require.Error(t, err)
	assert.Equal(t, 403, HTTPStatus(err))
	// Exactly one retry, even though it also failed.
	f.catalog.AssertNumberOfCalls(t, "FetchWatchedVideoIDs", 2)
}

func TestGetWatchHistory_OfflineFailsFast(t *testing.T) {
	f := newCatalogFixture(t)
	f.authenticated("tok")
	f.hub.SetOnline(false)

	_, err := f.uc.GetWatchHistory(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrOffline)
	f.catalog.AssertNotCalled(t, "FetchWatchedVideoIDs", mock.Anything, mock.Anything)
}

func TestGetWatchHistory_OfflineServesCache(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.authenticated("tok")

	history := []model.VideoSummary{vid("a", "10", 100)}
	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "tok").Return([]string{"a"}, nil).Once()
	f.catalog.On("FetchVideosByID", mock.Anything, []string{"a"}).Return(history, nil).Once()

	_, err := f.uc.GetWatchHistory(ctx)
	require.NoError(t, err)

	f.hub.SetOnline(false)
	got, err := f.uc.GetWatchHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, history, got)
}

func TestGetVideoDetails(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)

	video := vid("v1", "10", 500)
	f.catalog.On("FetchVideosByID", mock.Anything, []string{"v1"}).
		Return([]model.VideoSummary{video}, nil).Once()

	got, err := f.uc.GetVideoDetails(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, video, *got)

	// Cached on the second read.
	got, err = f.uc.GetVideoDetails(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, video, *got)
	f.catalog.AssertExpectations(t)
}

func TestGetVideoDetails_NotFound(t *testing.T) {
	f := newCatalogFixture(t)
	f.catalog.On("FetchVideosByID", mock.Anything, []string{"ghost"}).
		Return([]model.VideoSummary{}, nil).Once()

	_, err := f.uc.GetVideoDetails(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetVideoDetails_RequiresID(t *testing.T) {
	f := newCatalogFixture(t)
	_, err := f.uc.GetVideoDetails(context.Background(), "")
	assert.Error(t, err)
	f.catalog.AssertNotCalled(t, "FetchVideosByID", mock.Anything, mock.Anything)
}

func TestGetRecommendations_UsesMostFrequentCategory(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.authenticated("tok")

	history := []model.VideoSummary{vid("h1", "10", 1), vid("h2", "10", 2), vid("h3", "24", 3)}
	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "tok").Return([]string{"h1", "h2", "h3"}, nil).Once()
	f.catalog.On("FetchVideosByID", mock.Anything, []string{"h1", "h2", "h3"}).Return(history, nil).Once()

	trending := []model.VideoSummary{vid("h1", "10", 900), vid("t1", "10", 800), vid("t2", "10", 700)}
	f.catalog.On("FetchMostPopular", mock.Anything, "10").Return(trending, nil).Once()

	got, err := f.uc.GetRecommendations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.VideoSummary{vid("t1", "10", 800), vid("t2", "10", 700)}, got,
		"already-watched videos are excluded")
	f.catalog.AssertExpectations(t)
	f.catalog.AssertNotCalled(t, "FetchMostPopular", mock.Anything, "24")
}

func TestGetRecommendations_Cached(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.authenticated("tok")

	recommendations := []model.VideoSummary{vid("t1", "10", 800)}
	require.NoError(t, f.cache.Set(ctx, "recommendations", recommendations, 0))

	got, err := f.uc.GetRecommendations(ctx)
	require.NoError(t, err)
	assert.Equal(t, recommendations, got)
	f.catalog.AssertNotCalled(t, "FetchWatchedVideoIDs", mock.Anything, mock.Anything)
}

func TestGetRecommendations_EmptyHistoryFallsBackToTrending(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.authenticated("tok")

	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "tok").Return([]string{}, nil).Once()
	trending := []model.VideoSummary{vid("t1", "10", 800)}
	f.catalog.On("FetchMostPopular", mock.Anything, "").Return(trending, nil).Once()

	got, err := f.uc.GetRecommendations(ctx)
	require.NoError(t, err)
	assert.Equal(t, trending, got)
	f.catalog.AssertExpectations(t)
}

func TestGetPersonalizedRecommendations_TopThreeCategories(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.authenticated("tok")

	// Category frequency: "10" x3, "24" x2, "1" x2, "17" x1. Only the top
	// three are queried; "17" must not be.
	history := []model.VideoSummary{
		vid("h1", "10", 0), vid("h2", "10", 0), vid("h3", "10", 0),
		vid("h4", "24", 0), vid("h5", "24", 0),
		vid("h6", "1", 0), vid("h7", "1", 0),
		vid("h8", "17", 0),
	}
	ids := []string{"h1", "h2", "h3", "h4", "h5", "h6", "h7", "h8"}
	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "tok").Return(ids, nil).Once()
	f.catalog.On("FetchVideosByID", mock.Anything, ids).Return(history, nil).Once()

	f.catalog.On("FetchMostPopular", mock.Anything, "10").
		Return([]model.VideoSummary{vid("a", "10", 300), vid("h1", "10", 950)}, nil).Once()
	f.catalog.On("FetchMostPopular", mock.Anything, "24").
		Return([]model.VideoSummary{vid("b", "24", 900)}, nil).Once()
	f.catalog.On("FetchMostPopular", mock.Anything, "1").
		Return([]model.VideoSummary{vid("c", "1", 600)}, nil).Once()

	got, err := f.uc.GetPersonalizedRecommendations(ctx)
	require.NoError(t, err)
	// Watched videos dropped, remainder sorted by descending view count.
	assert.Equal(t, []model.VideoSummary{vid("b", "24", 900), vid("c", "1", 600), vid("a", "10", 300)}, got)
	f.catalog.AssertExpectations(t)
	f.catalog.AssertNotCalled(t, "FetchMostPopular", mock.Anything, "17")
}

func TestGetPersonalizedRecommendations_CapsAtThirty(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.authenticated("tok")

	history := []model.VideoSummary{vid("h1", "10", 0), vid("h2", "24", 0), vid("h3", "1", 0)}
	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "tok").Return([]string{"h1", "h2", "h3"}, nil).Once()
	f.catalog.On("FetchVideosByID", mock.Anything, []string{"h1", "h2", "h3"}).Return(history, nil).Once()

	// 36 unwatched candidates across the three categories, with view counts
	// 1..36 spread round-robin so every category contributes to the top 30.
	charts := map[string][]model.VideoSummary{"10": {}, "24": {}, "1": {}}
	categories := []string{"10", "24", "1"}
	for views := int64(1); views <= 36; views++ {
		category := categories[int(views)%len(categories)]
		charts[category] = append(charts[category], vid(fmt.Sprintf("c%d", views), category, views))
	}
	for category, items := range charts {
		f.catalog.On("FetchMostPopular", mock.Anything, category).Return(items, nil).Once()
	}

	got, err := f.uc.GetPersonalizedRecommendations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 30)

	// Only the 30 highest view counts survive (36 down to 7), in descending
	// order.
	for i, video := range got {
		assert.Equal(t, int64(36-i), video.ViewCount)
	}
	f.catalog.AssertExpectations(t)
}

func TestGetPersonalizedRecommendations_OneFailureFailsAll(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.authenticated("tok")

	history := []model.VideoSummary{vid("h1", "10", 0), vid("h2", "24", 0)}
	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "tok").Return([]string{"h1", "h2"}, nil).Once()
	f.catalog.On("FetchVideosByID", mock.Anything, []string{"h1", "h2"}).Return(history, nil).Once()

	f.catalog.On("FetchMostPopular", mock.Anything, "10").
		Return([]model.VideoSummary{vid("a", "10", 300)}, nil).Maybe()
	f.catalog.On("FetchMostPopular", mock.Anything, "24").
		Return(nil, errors.New("category fetch failed")).Once()

	_, err := f.uc.GetPersonalizedRecommendations(ctx)
	assert.Error(t, err, "no partial results when any category fetch fails")
}

func TestGetVideoCategories(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)

	categories := []model.VideoCategory{{ID: "10", Title: "Music"}}
	f.catalog.On("FetchVideoCategories", mock.Anything, "US").Return(categories, nil).Once()

	got, err := f.uc.GetVideoCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, categories, got)

	// Cached on the second read.
	got, err = f.uc.GetVideoCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, categories, got)
	f.catalog.AssertExpectations(t)
}

func TestRemoveFromHistory_InvalidatesCachedHistory(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.authenticated("tok")

	history := []model.VideoSummary{vid("a", "10", 100)}
	f.catalog.On("FetchWatchedVideoIDs", mock.Anything, "tok").Return([]string{"a"}, nil).Twice()
	f.catalog.On("FetchVideosByID", mock.Anything, []string{"a"}).Return(history, nil).Twice()
	f.catalog.On("RemoveHistoryEntry", mock.Anything, "tok", "entry-1").Return(nil).Once()

	_, err := f.uc.GetWatchHistory(ctx)
	require.NoError(t, err)

	require.NoError(t, f.uc.RemoveFromHistory(ctx, "entry-1"))

	// The cached history was invalidated, so this read fetches again.
	_, err = f.uc.GetWatchHistory(ctx)
	require.NoError(t, err)
	f.catalog.AssertExpectations(t)
}

func TestRemoveFromHistory_RequiresID(t *testing.T) {
	f := newCatalogFixture(t)
	err := f.uc.RemoveFromHistory(context.Background(), "")
	assert.Error(t, err)
	f.catalog.AssertNotCalled(t, "RemoveHistoryEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestClearCache(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)

	require.NoError(t, f.cache.Set(ctx, "recommendations", []string{"x"}, 0))
	require.NoError(t, f.cache.Set(ctx, "categories", []string{"y"}, 0))

	require.NoError(t, f.uc.ClearCache(ctx))

	var got []string
	hit, err := f.cache.Get(ctx, "recommendations", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	hit, err = f.cache.Get(ctx, "categories", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRankCategories(t *testing.T) {
	history := []model.VideoSummary{
		vid("1", "24", 0),
		vid("2", "10", 0),
		vid("3", "10", 0),
		vid("4", "17", 0),
	}
	// "10" wins on frequency; "24" precedes "17" by first appearance.
	assert.Equal(t, []string{"10", "24", "17"}, rankCategories(history))
}

func TestExcludeWatched(t *testing.T) {
	candidates := []model.VideoSummary{vid("a", "10", 1), vid("b", "10", 2), vid("c", "10", 3)}
	history := []model.VideoSummary{vid("b", "10", 2)}

	kept := excludeWatched(candidates, history)
	assert.Equal(t, []model.VideoSummary{vid("a", "10", 1), vid("c", "10", 3)}, kept)

	assert.Equal(t, candidates, excludeWatched(candidates, nil))
	assert.Empty(t, excludeWatched(nil, history))
}
