package bootstrap

import (
	"github.com/Meet5113/greencart-backend/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	TracingModule,
	DBModule,
	JWTModule,
	AuditModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
