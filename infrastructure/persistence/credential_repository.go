package persistence

import (
	"context"
	"strconv"
	"time"

	"tubemetrics/domain/model"
	"tubemetrics/domain/repository"
)

// Storage keys for the credential fields. Kept as three flat keys so a stale
// partial write degrades to "not authenticated" rather than a parse failure.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyTokenExpiry  = "token_expiry" // unix milliseconds
)

// CredentialRepository persists the single stored credential in the injected
// key-value storage. It is the only component that mutates credential state.
type CredentialRepository struct {
	store repository.IStorage
}

func NewCredentialRepository(store repository.IStorage) *CredentialRepository {
	return &CredentialRepository{store: store}
}

func (r *CredentialRepository) Save(ctx context.Context, cred *model.Credential) error {
	if err := r.store.Set(ctx, keyAccessToken, cred.AccessToken); err != nil {
		return err
	}
	if err := r.store.Set(ctx, keyRefreshToken, cred.RefreshToken); err != nil {
		return err
	}
	return r.store.Set(ctx, keyTokenExpiry, strconv.FormatInt(cred.ExpiresAt.UnixMilli(), 10))
}

func (r *CredentialRepository) Load(ctx context.Context) (*model.Credential, error) {
	access, okAccess, err := r.store.Get(ctx, keyAccessToken)
	if err != nil {
		return nil, err
	}
	refresh, _, err := r.store.Get(ctx, keyRefreshToken)
	if err != nil {
		return nil, err
	}
	expiryRaw, okExpiry, err := r.store.Get(ctx, keyTokenExpiry)
	if err != nil {
		return nil, err
	}
	if !okAccess && refresh == "" {
		return nil, nil
	}

	cred := &model.Credential{AccessToken: access, RefreshToken: refresh}
	if okExpiry {
		if millis, parseErr := strconv.ParseInt(expiryRaw, 10, 64); parseErr == nil {
			cred.ExpiresAt = time.UnixMilli(millis)
		}
	}
	return cred, nil
}

func (r *CredentialRepository) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, keyAccessToken); err != nil {
		return err
	}
	if err := r.store.Remove(ctx, keyRefreshToken); err != nil {
		return err
	}
	return r.store.Remove(ctx, keyTokenExpiry)
}
