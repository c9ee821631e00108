package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	dberr "github.com/webitel/video-exporter/internal/errors"
	"github.com/webitel/video-exporter/internal/model"
	"github.com/webitel/video-exporter/internal/store"
)

const (
	settingsTable = "video_exporter.settings"

	settingAPIEndpoint = "api_endpoint"
	settingAPIToken    = "api_token"
)

type Settings struct {
	storage *Store
}

// GetCredentials returns empty fields for settings that were never saved.
func (s *Settings) GetCredentials(ctx context.Context) (model.Credentials, error) {
	var creds model.Credentials

	db, err := s.storage.Database()
	if err != nil {
		return creds, err
	}

	query, args, err := psql.
		Select().
		Column(sq.Expr("COALESCE(MAX(value) FILTER (WHERE name = ?), '')", settingAPIEndpoint)).
		Column(sq.Expr("COALESCE(MAX(value) FILTER (WHERE name = ?), '')", settingAPIToken)).
		From(settingsTable).
		ToSql()
	if err != nil {
		return creds, dberr.NewDBInternalError("get_credentials", err)
	}

	if err := db.QueryRow(ctx, query, args...).Scan(&creds.APIEndpoint, &creds.APIToken); err != nil {
		return model.Credentials{}, dberr.NewDBInternalError("get_credentials", err)
	}
	return creds, nil
}

func (s *Settings) SaveCredentials(ctx context.Context, creds model.Credentials) error {
	db, err := s.storage.Database()
	if err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	query, args, err := psql.
		Insert(settingsTable).
		Columns("name", "value", "updated_at").
		Values(settingAPIEndpoint, creds.APIEndpoint, now).
		Values(settingAPIToken, creds.APIToken, now).
		Suffix("ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return dberr.NewDBInternalError("save_credentials", err)
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return mapPgError("save_credentials", err)
	}
	return nil
}

func NewSettingsStore(s *Store) (store.SettingsStore, error) {
	if s == nil {
		return nil, dberr.NewDBInternalError("new_store", errors.New("store is nil"))
	}
	return &Settings{storage: s}, nil
}
