package bootstrap

import (
	"context"
	"log/slog"

	"github.com/Meet5113/greencart-backend/internal/infra/observability"
	"github.com/Meet5113/greencart-backend/internal/pkg/config"

	"go.uber.org/fx"
)

var TracingModule = fx.Module("tracing",
	fx.Invoke(SetupTracing),
)

func SetupTracing(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) error {
	shutdown, err := observability.SetupTracing(context.Background(), cfg.Tracing)
	if err != nil {
		return err
	}
	if cfg.Tracing.Endpoint != "" {
		logger.Info("tracing enabled", "endpoint", cfg.Tracing.Endpoint, "service", cfg.Tracing.ServiceName)
	}

	lc.Append(fx.Hook{
		OnStop: shutdown,
	})
	return nil
}
