package bootstrap

import (
	"context"
	"log/slog"

	"github.com/Meet5113/greencart-backend/internal/infra/audit"
	"github.com/Meet5113/greencart-backend/internal/pkg/config"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"

	"go.uber.org/fx"
)

var AuditModule = fx.Module("audit",
	fx.Provide(
		NewAuditSink,
	),
)

func NewAuditSink(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) shared.AuditSink {
	producer := cfg.Tracing.ServiceName

	if cfg.Audit.Sink != "kafka" {
		return audit.NewLogSink(producer, logger)
	}

	sink := audit.NewKafkaSink(cfg.Audit, producer, logger)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sink.Start()
			logger.Info("audit events publishing to kafka", "topic", cfg.Audit.KafkaTopic, "brokers", cfg.Audit.KafkaBrokers)
			return nil
		},
		OnStop: sink.Close,
	})
	return sink
}
