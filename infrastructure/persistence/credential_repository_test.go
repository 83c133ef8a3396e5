package persistence

import (
	"context"
	"testing"
	"time"

	"tubemetrics/domain/model"
	"tubemetrics/infrastructure/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialRepository_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialRepository(storage.NewMemoryStorage())

	expiry := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, &model.Credential{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    expiry,
	}))

	cred, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "access-1", cred.AccessToken)
	assert.Equal(t, "refresh-1", cred.RefreshToken)
	assert.True(t, cred.ExpiresAt.Equal(expiry))
}

func TestCredentialRepository_LoadEmptyStore(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialRepository(storage.NewMemoryStorage())

	cred, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestCredentialRepository_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialRepository(storage.NewMemoryStorage())

	require.NoError(t, repo.Save(ctx, &model.Credential{
		AccessToken:  "old",
		RefreshToken: "old-refresh",
		ExpiresAt:    time.Now(),
	}))
	require.NoError(t, repo.Save(ctx, &model.Credential{
		AccessToken:  "new",
		RefreshToken: "new-refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}))

	cred, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "new", cred.AccessToken)
	assert.Equal(t, "new-refresh", cred.RefreshToken)
}

func TestCredentialRepository_Clear(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	repo := NewCredentialRepository(store)

	require.NoError(t, repo.Save(ctx, &model.Credential{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now(),
	}))
	require.NoError(t, repo.Clear(ctx))

	cred, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, cred)

	for _, key := range []string{keyAccessToken, keyRefreshToken, keyTokenExpiry} {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, "key %s must be removed", key)
	}
}

func TestCredentialRepository_RefreshTokenAloneSurvives(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	repo := NewCredentialRepository(store)

	// Only the refresh token is present, e.g. after a partial clear of a
	// stale access token. That still counts as a stored credential.
	require.NoError(t, store.Set(ctx, keyRefreshToken, "refresh-only"))

	cred, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Empty(t, cred.AccessToken)
	assert.Equal(t, "refresh-only", cred.RefreshToken)
}

func TestCredentialRepository_GarbledExpiryDegradesToZero(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	repo := NewCredentialRepository(store)

	require.NoError(t, store.Set(ctx, keyAccessToken, "access"))
	require.NoError(t, store.Set(ctx, keyTokenExpiry, "not-a-number"))

	cred, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.True(t, cred.ExpiresAt.IsZero())
	assert.False(t, cred.UsableAt(time.Now()))
}
