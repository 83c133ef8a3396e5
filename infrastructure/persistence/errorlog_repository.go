package persistence

import (
	"context"
	"encoding/json"

	"tubemetrics/domain/model"
	"tubemetrics/domain/repository"
	"tubemetrics/infrastructure/logger"
)

const errorLogStorageKey = "error_logs"

// errorLogLimit bounds the diagnostic log; the oldest entries are dropped
// first.
const errorLogLimit = 50

// ErrorLogRepository keeps the bounded diagnostic log in storage. Append is
// strictly best-effort: it must never fail or panic into the caller, since it
// runs on error paths that have their own error to report.
type ErrorLogRepository struct {
	store repository.IStorage
}

func NewErrorLogRepository(store repository.IStorage) *ErrorLogRepository {
	return &ErrorLogRepository{store: store}
}

func (r *ErrorLogRepository) Append(ctx context.Context, entry model.ErrorLogEntry) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.GetLogger().WithField("panic", rec).Debug("error log append panicked")
		}
	}()

	entries, err := r.Entries(ctx)
	if err != nil {
		entries = nil
	}
	entries = append(entries, entry)
	if len(entries) > errorLogLimit {
		entries = entries[len(entries)-errorLogLimit:]
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := r.store.Set(ctx, errorLogStorageKey, string(raw)); err != nil {
		logger.GetLogger().WithField("error", err).Debug("error log write failed")
	}
}

func (r *ErrorLogRepository) Entries(ctx context.Context) ([]model.ErrorLogEntry, error) {
	raw, ok, err := r.store.Get(ctx, errorLogStorageKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.ErrorLogEntry{}, nil
	}
	var entries []model.ErrorLogEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []model.ErrorLogEntry{}, nil
	}
	return entries, nil
}
