package service

import (
	"context"
	"log/slog"

	"github.com/webitel/video-exporter/internal/errors"
	"github.com/webitel/video-exporter/internal/model"
	"github.com/webitel/video-exporter/internal/store"
)

const InvalidEndpointMessage = "Please enter a valid URL for the API endpoint."

type SettingsService interface {
	GetSettings(ctx context.Context) (*model.SettingsView, error)
	UpdateSettings(ctx context.Context, update *model.SettingsUpdate) (*model.SettingsView, error)
	SeedCredentials(ctx context.Context, creds model.Credentials) error
}

type SettingsServiceImpl struct {
	store store.SettingsStore
	log   *slog.Logger
}

func NewSettingsService(s store.SettingsStore, log *slog.Logger) (SettingsService, error) {
	if s == nil {
		return nil, errors.Internal("store is nil in SettingsService")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SettingsServiceImpl{store: s, log: log}, nil
}

func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (*model.SettingsView, error) {
	creds, err := s.store.GetCredentials(ctx)
	if err != nil {
		return nil, errors.Internal("unable to load settings", errors.WithID("settings.get"), errors.WithCause(err))
	}
	return model.NewSettingsView(creds), nil
}

// UpdateSettings applies each field on its own. An invalid endpoint keeps the
// stored one while the token is still saved, and the call then reports the
// endpoint as a bad request. A token equal to its masked form is treated as
// unchanged.
func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, update *model.SettingsUpdate) (*model.SettingsView, error) {
	if update == nil {
		return nil, errors.BadRequest("settings are required", errors.WithID("settings.update.empty"))
	}

	current, err := s.store.GetCredentials(ctx)
	if err != nil {
		return nil, errors.Internal("unable to load settings", errors.WithID("settings.update.load"), errors.WithCause(err))
	}

	next := current
	var invalid error
	if update.APIEndpoint != nil {
		if endpoint, ok := SanitizeEndpoint(*update.APIEndpoint); ok {
			next.APIEndpoint = endpoint
		} else {
			invalid = errors.BadRequest(InvalidEndpointMessage, errors.WithID("settings.update.endpoint"))
		}
	}
	if update.APIToken != nil {
		token := SanitizeText(*update.APIToken)
		if token != current.MaskedToken() || current.APIToken == "" {
			next.APIToken = token
		}
	}

	if next == current {
		if invalid != nil {
			return nil, invalid
		}
		return model.NewSettingsView(current), nil
	}
	if err := s.store.SaveCredentials(ctx, next); err != nil {
		return nil, errors.Internal("unable to save settings", errors.WithID("settings.update.save"), errors.WithCause(err))
	}

	s.log.InfoContext(ctx, "video_exporter.settings.updated",
		slog.Bool("endpoint_changed", next.APIEndpoint != current.APIEndpoint),
		slog.Bool("token_changed", next.APIToken != current.APIToken),
		slog.Bool("configured", next.Configured()),
		slog.Bool("endpoint_rejected", invalid != nil),
	)
	if invalid != nil {
		return nil, invalid
	}
	return model.NewSettingsView(next), nil
}

// SeedCredentials writes creds only when nothing has been stored yet, so
// values saved through the admin API survive restarts.
func (s *SettingsServiceImpl) SeedCredentials(ctx context.Context, creds model.Credentials) error {
	if creds.APIEndpoint == "" && creds.APIToken == "" {
		return nil
	}
	current, err := s.store.GetCredentials(ctx)
	if err != nil {
		return errors.Internal("unable to load settings", errors.WithID("settings.seed.load"), errors.WithCause(err))
	}
	if current.APIEndpoint != "" || current.APIToken != "" {
		return nil
	}

	endpoint, ok := SanitizeEndpoint(creds.APIEndpoint)
	if !ok {
		return errors.BadRequest(InvalidEndpointMessage, errors.WithID("settings.seed.endpoint"))
	}
	seed := model.Credentials{APIEndpoint: endpoint, APIToken: SanitizeText(creds.APIToken)}
	if err := s.store.SaveCredentials(ctx, seed); err != nil {
		return errors.Internal("unable to save settings", errors.WithID("settings.seed.save"), errors.WithCause(err))
	}
	s.log.InfoContext(ctx, "video_exporter.settings.seeded", slog.Bool("configured", seed.Configured()))
	return nil
}
