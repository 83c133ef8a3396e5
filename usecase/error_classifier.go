package usecase

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"

	"tubemetrics/domain/apperrors"
	"tubemetrics/domain/model"
	"tubemetrics/domain/repository"

	"google.golang.org/api/googleapi"
)

// ErrorClassifier maps failures into user-facing categories and keeps the
// bounded diagnostic log.
type ErrorClassifier struct {
	log repository.IErrorLog
}

func NewErrorClassifier(log repository.IErrorLog) *ErrorClassifier {
	return &ErrorClassifier{log: log}
}

// Classify derives the category and message for a failure. Driven by the
// HTTP status when a response exists, by no-response detection for network
// failures, else unknown.
func Classify(err error) apperrors.Classification {
	if err == nil {
		return apperrors.Classification{Kind: apperrors.KindUnknown, Message: "An unexpected error occurred. Please try again."}
	}

	switch {
	case errors.Is(err, apperrors.ErrNotAuthenticated), errors.Is(err, apperrors.ErrAuthExpired):
		return apperrors.Classification{Kind: apperrors.KindUnauthorized, Message: "Authentication failed. Please log in again."}
	case errors.Is(err, apperrors.ErrOffline):
		return apperrors.Classification{Kind: apperrors.KindNetworkError, Message: "Network error. Please check your connection."}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401:
			return apperrors.Classification{Kind: apperrors.KindUnauthorized, Message: "Authentication failed. Please log in again."}
		case apiErr.Code == 403:
			return apperrors.Classification{Kind: apperrors.KindForbidden, Message: "You do not have permission to access this resource."}
		case apiErr.Code == 404:
			return apperrors.Classification{Kind: apperrors.KindNotFound, Message: "The requested resource was not found."}
		case apiErr.Code == 429:
			return apperrors.Classification{Kind: apperrors.KindRateLimited, Message: "Too many requests. Please try again later."}
		case apiErr.Code >= 500:
			return apperrors.Classification{Kind: apperrors.KindServerError, Message: "Server error. Please try again later."}
		case apiErr.Message != "":
			return apperrors.Classification{Kind: apperrors.KindUnknown, Message: apiErr.Message}
		default:
			return apperrors.Classification{Kind: apperrors.KindUnknown, Message: "An error occurred. Please try again."}
		}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return apperrors.Classification{Kind: apperrors.KindNetworkError, Message: "Network error. Please check your connection."}
	}

	return apperrors.Classification{Kind: apperrors.KindUnknown, Message: "An unexpected error occurred. Please try again."}
}

// HTTPStatus extracts the response status from a failure, 0 when no response
// was received.
func HTTPStatus(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// isUnauthorized reports a 401 from the API.
func isUnauthorized(err error) bool {
	return HTTPStatus(err) == 401
}

// LogError appends a diagnostic entry. Best effort: any failure here is
// swallowed so the original error is never masked.
func (c *ErrorClassifier) LogError(ctx context.Context, err error, errContext string) {
	if err == nil || c.log == nil {
		return
	}
	entry := model.ErrorLogEntry{
		Timestamp:  time.Now().UTC(),
		Context:    errContext,
		Message:    err.Error(),
		HTTPStatus: HTTPStatus(err),
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Body != "" {
		payload := apiErr.Body
		if len(payload) > 1024 {
			payload = payload[:1024]
		}
		entry.Payload = payload
	}
	c.log.Append(ctx, entry)
}
