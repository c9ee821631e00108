package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	conf "github.com/webitel/video-exporter/config"
	"github.com/webitel/video-exporter/internal/app"
	"github.com/webitel/video-exporter/internal/model"
	logging "github.com/webitel/video-exporter/internal/otel"

	// ------------ logging ------------ //
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	// -------------------- plugin(s) -------------------- //
	_ "github.com/webitel/webitel-go-kit/infra/otel/sdk/log/otlp"
	_ "github.com/webitel/webitel-go-kit/infra/otel/sdk/log/stdout"
	_ "github.com/webitel/webitel-go-kit/infra/otel/sdk/metric/otlp"
	_ "github.com/webitel/webitel-go-kit/infra/otel/sdk/metric/stdout"
	_ "github.com/webitel/webitel-go-kit/infra/otel/sdk/trace/otlp"
	_ "github.com/webitel/webitel-go-kit/infra/otel/sdk/trace/stdout"
)

func main() {
	os.Exit(run())
}

func run() int {
	config, appErr := conf.LoadConfig()
	if appErr != nil {
		slog.Error("video_exporter.main.configuration_error", slog.String("error", appErr.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// slog + OTEL logging
	service := resource.NewSchemaless(
		semconv.ServiceName(model.AppServiceName),
		semconv.ServiceVersion(model.CurrentVersion),
		semconv.ServiceInstanceID(config.Consul.Id),
		semconv.ServiceNamespace(model.NamespaceName),
	)
	shutdown, err := logging.Setup(ctx, service, model.AppServiceName)
	if err != nil {
		slog.Error("video_exporter.main.otel_setup_error", slog.String("error", err.Error()))
		return 1
	}

	application, appErr := app.New(config, shutdown)
	if appErr != nil {
		slog.Error("video_exporter.main.application_initialization_error", slog.String("error", appErr.Error()))
		_ = shutdown(context.Background())
		return 1
	}

	slog.Debug("video_exporter.main.configuration_loaded",
		slog.String("http_address", config.HTTP.Addr),
		slog.String("consul", config.Consul.Address),
		slog.String("consul_id", config.Consul.Id),
		slog.String("site_url", config.Export.SiteURL),
	)

	slog.Info("video_exporter.main.starting_application")
	errCh := make(chan error, 1)
	go func() { errCh <- application.Start(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("video_exporter.main.application_start_error", slog.String("error", err.Error()))
		}
		_ = application.Stop()
		return 1
	case <-ctx.Done():
		slog.Info("video_exporter.main.received_kill_signal", slog.String("status", "stopping"))
	}

	if err := application.Stop(); err != nil {
		return 1
	}
	slog.Info("video_exporter.main.stopped", slog.String("status", "service gracefully stopped"))
	return 0
}
