package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Meet5113/greencart-backend/internal/handler/api"
	"github.com/Meet5113/greencart-backend/internal/handler/middleware"
	"github.com/Meet5113/greencart-backend/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Order        *api.OrderHandler
	Subscription *api.SubscriptionHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	slogger := logger.GetSlogLogger()
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(slogger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, slogger))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler(slogger))
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	adminOnly := []gin.HandlerFunc{authMiddleware.RequireAdmin()}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		orders := apiGroup.Group("/orders")
		addRoutes(orders, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Order.PlaceOrder},
			{Method: http.MethodPost, Path: "/checkout", Handler: h.Order.Checkout},
			{Method: http.MethodGet, Path: "/my", Handler: h.Order.ListMine},
			{Method: http.MethodGet, Path: "", Handler: h.Order.ListAll, Mw: adminOnly},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Order.Get},
			{Method: http.MethodPut, Path: "/:id/status", Handler: h.Order.UpdateStatus, Mw: adminOnly},
		})

		subscriptions := apiGroup.Group("/subscriptions")
		addRoutes(subscriptions, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Subscription.Create},
			{Method: http.MethodGet, Path: "/my", Handler: h.Subscription.ListMine},
			{Method: http.MethodGet, Path: "", Handler: h.Subscription.ListAll, Mw: adminOnly},
			{Method: http.MethodPut, Path: "/:id/status", Handler: h.Subscription.UpdateStatus},
			{Method: http.MethodPost, Path: "/process", Handler: h.Subscription.Process, Mw: adminOnly},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(append([]gin.HandlerFunc(nil), r.Mw...), r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

