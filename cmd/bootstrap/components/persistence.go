package components

import (
	"github.com/Meet5113/greencart-backend/internal/infra/db"
	"github.com/Meet5113/greencart-backend/internal/infra/readstore"
	"github.com/Meet5113/greencart-backend/internal/infra/repository"
	"github.com/Meet5113/greencart-backend/internal/infra/uow"
	"github.com/Meet5113/greencart-backend/internal/usecase/queries"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderReadStore)),
		),
		fx.Annotate(
			readstore.NewSubscriptionReadStore,
			fx.As(new(queries.SubscriptionReadStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork
		uow.NewPostgresUoW,
		// Product (catalogue reads and the stock ledger share one row)
		fx.Annotate(
			repository.NewProductRepository,
			fx.As(new(shared.ProductRepository)),
			fx.As(new(shared.StockLedger)),
		),
		fx.Annotate(
			repository.NewOrderRepository,
			fx.As(new(shared.OrderRepository)),
		),
		fx.Annotate(
			repository.NewCartRepository,
			fx.As(new(shared.CartRepository)),
		),
		fx.Annotate(
			repository.NewSubscriptionRepository,
			fx.As(new(shared.SubscriptionRepository)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
