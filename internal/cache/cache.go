package cache

import (
	"context"

	"github.com/webitel/video-exporter/internal/model"
)

// ErrorLog keeps the most recent export failures, newest first.
// Appending past model.MaxErrorLogEntries silently drops the oldest entry.
type ErrorLog interface {
	AppendError(ctx context.Context, entry model.ErrorLogEntry) error
	ListErrors(ctx context.Context) ([]model.ErrorLogEntry, error)
}
