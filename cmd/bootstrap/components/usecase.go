package components

import (
	"log/slog"

	"github.com/Meet5113/greencart-backend/internal/pkg/clock"
	"github.com/Meet5113/greencart-backend/internal/pkg/config"
	"github.com/Meet5113/greencart-backend/internal/usecase"
	"github.com/Meet5113/greencart-backend/internal/usecase/commands"
	"github.com/Meet5113/greencart-backend/internal/usecase/queries"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	commands.NewFulfillment,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		newOrderCommands,
		newSubscriptionCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewSubscriptionQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func newOrderCommands(
	cfg config.Config,
	f *commands.Fulfillment,
	orders shared.OrderRepository,
	carts shared.CartRepository,
	uow shared.UnitOfWork,
	audit shared.AuditSink,
	clk clock.Clock,
	logger *slog.Logger,
) commands.OrderCommands {
	return commands.NewOrderUseCase(f, orders, carts, uow, audit, clk, logger, cfg.Fulfillment.DefaultPaymentMethod)
}

func newSubscriptionCommands(
	cfg config.Config,
	f *commands.Fulfillment,
	products shared.ProductRepository,
	orders shared.OrderRepository,
	subs shared.SubscriptionRepository,
	uow shared.UnitOfWork,
	audit shared.AuditSink,
	clk clock.Clock,
	logger *slog.Logger,
) (commands.SubscriptionCommands, error) {
	loc, err := cfg.Fulfillment.Location()
	if err != nil {
		return nil, err
	}
	return commands.NewSubscriptionUseCase(f, products, orders, subs, uow, audit, clk, logger, loc), nil
}
