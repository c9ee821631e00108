package app

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	cfg "github.com/webitel/video-exporter/config"
	cache "github.com/webitel/video-exporter/internal/cache/redis"
	"github.com/webitel/video-exporter/internal/errors"
	"github.com/webitel/video-exporter/internal/exporter"
	"github.com/webitel/video-exporter/internal/handler/rest"
	"github.com/webitel/video-exporter/internal/locale"
	"github.com/webitel/video-exporter/internal/metrics"
	"github.com/webitel/video-exporter/internal/model"
	"github.com/webitel/video-exporter/internal/server"
	"github.com/webitel/video-exporter/internal/service"
	"github.com/webitel/video-exporter/internal/store/postgres"
)

type App struct {
	Config   *cfg.AppConfig
	log      *slog.Logger
	exitCh   chan error
	shutdown func(ctx context.Context) error
	Store    *postgres.Store
	Cache    *cache.RedisCache
	Exporter *exporter.Client
	server   *server.Server
	locale   *locale.Translator

	registry    *prometheus.Registry
	httpMetrics *metrics.HTTPMetrics
	exportStats *metrics.ExportMetrics

	exportService   service.ExportService
	settingsService service.SettingsService
}

// New creates a fully initialized App. Connections to postgres are opened in Start.
func New(config *cfg.AppConfig, shutdown func(ctx context.Context) error) (*App, error) {
	app := &App{
		Config:   config,
		log:      slog.Default(),
		shutdown: shutdown,
		exitCh:   make(chan error, 1),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}
	if err := app.initRedis(); err != nil {
		return nil, err
	}
	app.initMetrics()
	app.initExporter()
	if err := app.initLocale(); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		return nil, err
	}
	if err := app.initServer(); err != nil {
		return nil, err
	}

	return app, nil
}

// --------- Private init methods ---------

func (app *App) initStore() error {
	if app.Config.Database == nil {
		return errors.New("database config is nil")
	}
	app.Store = postgres.New(app.Config.Database)
	return nil
}

func (app *App) initRedis() error {
	redisCache, err := cache.NewRedisCache(app.Config.Redis.Addr, app.Config.Redis.Password, app.Config.Redis.DB)
	if err != nil {
		return errors.New("unable to initialize Redis", errors.WithCause(err))
	}
	app.Cache = redisCache
	return nil
}

func (app *App) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.httpMetrics = metrics.NewHTTPMetrics(app.registry)
	app.exportStats = metrics.NewExportMetrics(app.registry)
}

func (app *App) initExporter() {
	app.Exporter = exporter.New()
}

func (app *App) initLocale() error {
	tr, err := locale.New()
	if err != nil {
		return errors.New("unable to load translations", errors.WithCause(err))
	}
	app.locale = tr
	app.log.Debug("video_exporter.app.translations_loaded", slog.Any("languages", tr.Languages()))
	return nil
}

func (app *App) initServices() error {
	var err error
	app.exportService, err = service.NewExportService(service.ExportServiceConfig{
		Posts:    app.Store.Posts(),
		Settings: app.Store.Settings(),
		ErrorLog: app.Cache,
		Client:   app.Exporter,
		SiteURL:  app.Config.Export.SiteURL,
		Metrics:  app.exportStats,
		Log:      app.log,
	})
	if err != nil {
		return errors.New("unable to initialize export service", errors.WithCause(err))
	}

	app.settingsService, err = service.NewSettingsService(app.Store.Settings(), app.log)
	if err != nil {
		return errors.New("unable to initialize settings service", errors.WithCause(err))
	}
	return nil
}

func (app *App) initServer() error {
	engine, api := rest.NewRouter(rest.RouterConfig{
		AdminToken: app.Config.HTTP.AdminToken,
		Translator: app.locale,
		Metrics:    app.httpMetrics,
		Gatherer:   app.registry,
		Health: map[string]rest.HealthCheck{
			"postgres": app.Store.Ping,
			"redis":    app.Cache.Ping,
		},
	})

	// --------- Route Registration (HTTP) ---------
	RegisterRoutes(api, app)

	srv, err := server.BuildServer(app.Config.HTTP, app.Config.Consul, engine, app.exitCh)
	if err != nil {
		return errors.New("failed to build server", errors.WithCause(err))
	}
	app.server = srv
	return nil
}

// Start opens the database, prepares its schema and serves HTTP until the
// server fails.
func (app *App) Start(ctx context.Context) error {
	if err := app.Store.Open(); err != nil {
		return errors.New("failed to open store", errors.WithCause(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.Store.Migrate(gctx); err != nil {
			return errors.New("failed to migrate store", errors.WithCause(err))
		}
		return app.settingsService.SeedCredentials(gctx, model.Credentials{
			APIEndpoint: app.Config.Export.APIEndpoint,
			APIToken:    app.Config.Export.APIToken,
		})
	})
	g.Go(func() error {
		if err := app.Cache.Ping(gctx); err != nil {
			return errors.New("redis is unreachable", errors.WithCause(err))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	app.log.InfoContext(ctx, "video_exporter.app.listening", slog.String("addr", app.server.Addr().String()))
	go app.server.Start()

	return <-app.exitCh
}

// Stop gracefully shuts down all services
func (app *App) Stop() error {
	slog.Info("video_exporter.main.stop_starting")

	if app.server != nil {
		if err := app.server.Stop(); err != nil {
			slog.Error("server stop error", "err", err)
		} else {
			slog.Info("server stopped")
		}
	}

	if app.Store != nil {
		if err := app.Store.Close(); err != nil {
			slog.Error("store close error", "err", err)
		}
	}

	if app.Cache != nil {
		if err := app.Cache.Close(); err != nil {
			slog.Error("redis close error", "err", err)
		} else {
			slog.Info("redis connection closed")
		}
	}

	if app.shutdown != nil {
		if err := app.shutdown(context.Background()); err != nil {
			slog.Error("shutdown hook error", "err", err)
		} else {
			slog.Info("shutdown hook executed")
		}
	}

	slog.Info("video_exporter.main.stop_complete")
	return nil
}
