package bootstrap

import (
	"log/slog"

	"github.com/Meet5113/greencart-backend/internal/handler/middleware"
	"github.com/Meet5113/greencart-backend/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewRequestLogger,
		NewLogger,
	),
)

func NewRequestLogger(cfg config.Config) *middleware.Logger {
	return middleware.NewLogger(cfg.Log)
}

// NewLogger also becomes slog's default so package-level slog calls share
// the same handler.
func NewLogger(l *middleware.Logger) *slog.Logger {
	logger := l.GetSlogLogger()
	slog.SetDefault(logger)
	return logger
}
