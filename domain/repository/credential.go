package repository

import (
	"context"

	"tubemetrics/domain/model"
)

// ICredentialRepository persists the single stored credential.
type ICredentialRepository interface {
	// Save overwrites the stored credential.
	Save(ctx context.Context, cred *model.Credential) error
	// Load returns the stored credential, or nil when none is stored (or the
	// stored value is unreadable, which is treated as a cold start).
	Load(ctx context.Context) (*model.Credential, error)
	// Clear removes all credential fields unconditionally.
	Clear(ctx context.Context) error
}

// ICredentialStore is the credential lifecycle consumed by the catalog client
// and the presentation layer.
type ICredentialStore interface {
	// BuildAuthorizationURL constructs the provider consent URL. Deterministic,
	// no side effects.
	BuildAuthorizationURL() string
	// ExchangeCode trades an authorization code for a credential and persists
	// it, overwriting any prior one.
	ExchangeCode(ctx context.Context, code string) (*model.Credential, error)
	// Refresh obtains a new access token with the stored refresh token.
	// A nil credential with a nil error means re-authentication is required;
	// it is not a transient failure.
	Refresh(ctx context.Context) (*model.Credential, error)
	// CurrentToken returns the access token only while unexpired (with safety
	// margin); otherwise the empty string, without attempting a refresh.
	CurrentToken(ctx context.Context) string
	// IsAuthenticated reports whether CurrentToken would return a token.
	IsAuthenticated(ctx context.Context) bool
	// Logout clears the stored credential.
	Logout(ctx context.Context) error
}
