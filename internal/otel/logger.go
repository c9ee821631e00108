package logging

import (
	"context"
	"log/slog"
	"os"

	slogutil "github.com/webitel/webitel-go-kit/infra/otel/log/bridge/slog"
	otelsdk "github.com/webitel/webitel-go-kit/infra/otel/sdk"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/sdk/resource"

	_ "github.com/webitel/webitel-go-kit/infra/otel/sdk/log/otlp"
	_ "github.com/webitel/webitel-go-kit/infra/otel/sdk/log/stdout"
)

const levelEnv = "OTEL_LOG_LEVEL"

// Level reads the log level from OTEL_LOG_LEVEL, defaulting to info.
func Level() *slog.LevelVar {
	verbose := new(slog.LevelVar)
	verbose.Set(slog.LevelInfo)
	if input := os.Getenv(levelEnv); input != "" {
		_ = verbose.UnmarshalText([]byte(input))
	}
	return verbose
}

// Setup routes slog.Default() through the OpenTelemetry log bridge and
// returns the SDK shutdown function.
func Setup(ctx context.Context, service *resource.Resource, scope string) (func(context.Context) error, error) {
	level := Level()
	shutdown, err := otelsdk.Configure(
		ctx,
		otelsdk.WithResource(service),
		otelsdk.WithLogBridge(func() {
			slog.SetDefault(slog.New(
				slogutil.WithLevel(level, otelslog.NewHandler(scope)),
			))
		}),
	)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "video_exporter.otel.setup_complete", slog.String("level", level.Level().String()))
	return shutdown, nil
}
