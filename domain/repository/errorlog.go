package repository

import (
	"context"

	"tubemetrics/domain/model"
)

// IErrorLog is the bounded diagnostic log. Append must never fail the caller:
// persistence problems are swallowed.
type IErrorLog interface {
	Append(ctx context.Context, entry model.ErrorLogEntry)
	Entries(ctx context.Context) ([]model.ErrorLogEntry, error)
}
