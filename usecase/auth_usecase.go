package usecase

import (
	"context"
	"fmt"
	"time"

	"tubemetrics/domain/apperrors"
	"tubemetrics/domain/model"
	"tubemetrics/domain/repository"
	"tubemetrics/infrastructure/logger"

	"golang.org/x/oauth2"
)

// AuthUseCase owns the credential lifecycle. It never refreshes implicitly:
// CurrentToken reports expired tokens as absent and the catalog client
// triggers Refresh reactively on a 401.
type AuthUseCase struct {
	oauth *oauth2.Config
	creds repository.ICredentialRepository
	now   func() time.Time
}

type AuthOption func(*AuthUseCase)

// WithAuthNow substitutes the clock, for tests.
func WithAuthNow(now func() time.Time) AuthOption {
	return func(a *AuthUseCase) { a.now = now }
}

func NewAuthUseCase(oauth *oauth2.Config, creds repository.ICredentialRepository, opts ...AuthOption) repository.ICredentialStore {
	a := &AuthUseCase{oauth: oauth, creds: creds, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildAuthorizationURL constructs the provider consent URL. access_type
// offline and prompt=consent force the provider to always issue a refresh
// token.
func (a *AuthUseCase) BuildAuthorizationURL() string {
	return a.oauth.AuthCodeURL("", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// ExchangeCode trades the authorization code for a credential and persists
// it, overwriting any prior one.
func (a *AuthUseCase) ExchangeCode(ctx context.Context, code string) (*model.Credential, error) {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuthExchange, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token in response", apperrors.ErrAuthExchange)
	}

	cred := &model.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	if err := a.creds.Save(ctx, cred); err != nil {
		return nil, fmt.Errorf("failed to persist credential: %w", err)
	}
	return cred, nil
}

// Refresh obtains a new access token with the stored refresh token. A nil
// credential with a nil error means re-authentication is required; callers
// must not treat it as transient.
func (a *AuthUseCase) Refresh(ctx context.Context) (*model.Credential, error) {
	stored, err := a.creds.Load(ctx)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.RefreshToken == "" {
		return nil, nil
	}

	source := a.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: stored.RefreshToken})
	token, err := source.Token()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("token refresh rejected")
		return nil, nil
	}

	cred := &model.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	if cred.RefreshToken == "" {
		// The provider does not re-issue the refresh token on every grant.
		cred.RefreshToken = stored.RefreshToken
	}
	if err := a.creds.Save(ctx, cred); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed to persist refreshed credential")
	}
	return cred, nil
}

// CurrentToken returns the access token only while it is outside the expiry
// safety margin; otherwise the empty string.
func (a *AuthUseCase) CurrentToken(ctx context.Context) string {
	cred, err := a.creds.Load(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed to load credential")
		return ""
	}
	if !cred.UsableAt(a.now()) {
		return ""
	}
	return cred.AccessToken
}

func (a *AuthUseCase) IsAuthenticated(ctx context.Context) bool {
	return a.CurrentToken(ctx) != ""
}

func (a *AuthUseCase) Logout(ctx context.Context) error {
	return a.creds.Clear(ctx)
}
