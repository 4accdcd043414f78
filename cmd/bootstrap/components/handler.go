package components

import (
	"github.com/Meet5113/greencart-backend/internal/handler"
	"github.com/Meet5113/greencart-backend/internal/handler/api"
	"github.com/Meet5113/greencart-backend/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOrderHandler,
		api.NewSubscriptionHandler,
		middleware.NewAuthMiddleware,
		func(o *api.OrderHandler, s *api.SubscriptionHandler) handler.Handlers {
			return handler.Handlers{Order: o, Subscription: s}
		},
	),
	fx.Invoke(handler.NewRouter),
)
