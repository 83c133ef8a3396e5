package apperrors

import "errors"

// Sentinel errors for the credential lifecycle. Callers match with errors.Is
// and redirect the user to login for any of them.
var (
	// ErrNotAuthenticated means no usable credential is stored.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrAuthExpired means a refresh was attempted and failed; the user must
	// re-authenticate.
	ErrAuthExpired = errors.New("authentication expired")
	// ErrAuthExchange means the authorization-code exchange did not yield an
	// access token; the login flow must be restarted.
	ErrAuthExchange = errors.New("authorization code exchange failed")
	// ErrOffline means a connectivity monitor reported the network as down and
	// the call was short-circuited before reaching the transport.
	ErrOffline = errors.New("network unreachable")
)

// Kind is a user-facing failure category.
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindRateLimited  Kind = "rate_limited"
	KindServerError  Kind = "server_error"
	KindNetworkError Kind = "network_error"
	KindUnknown      Kind = "unknown"
)

// Classification is the category and message shown to the user for a failure.
type Classification struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}
