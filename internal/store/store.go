package store

import (
	"context"

	"github.com/webitel/video-exporter/internal/model"
)

type Store interface {
	Posts() PostStore
	Settings() SettingsStore

	// ------------ Database Management ------------ //
	Open() error  // Return custom DB error
	Close() error // Return custom DB error
}

// PostStore reads CMS posts and keeps the export result recorded for each.
type PostStore interface {
	GetPost(ctx context.Context, id int64) (*model.Post, error)
	SaveExportResult(ctx context.Context, postID int64, result *model.ExportResult) error
	GetExportResult(ctx context.Context, postID int64) (*model.PostExport, error)
}

// SettingsStore holds the video API credentials. Callers read it on every
// export; nothing is cached between requests.
type SettingsStore interface {
	GetCredentials(ctx context.Context) (model.Credentials, error)
	SaveCredentials(ctx context.Context, creds model.Credentials) error
}
