package router

import (
	"time"

	"cotizador/internal/config"
	"cotizador/internal/handler"
	"cotizador/internal/infra"
	"cotizador/internal/middleware"
	"cotizador/internal/pricing"
	"cotizador/internal/repository"
	"cotizador/internal/service"
	"cotizador/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// DraftSettings maps the pricing policy in cfg onto draft defaults.
func DraftSettings(cfg *config.Config) service.DraftSettings {
	return service.DraftSettings{
		DefaultExchangeRate: decimal.NewFromFloat(cfg.DefaultExchangeRate),
		DefaultTaxRate:      decimal.NewFromFloat(cfg.DefaultTaxRate),
		DefaultMarginPct:    decimal.NewFromFloat(cfg.DefaultMarginPct),
		Delivery: pricing.DeliveryPolicy{
			LongThreshold: decimal.NewFromFloat(cfg.DeliveryLongThreshold),
			MidThreshold:  decimal.NewFromFloat(cfg.DeliveryMidThreshold),
		},
	}
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← KVStore.
// rdb is nil when no Redis is reachable; async jobs and the catalog cache are
// then disabled.
func New(cfg *config.Config, store infra.KVStore, rdb *redis.Client, erp *infra.ERPClient, fx *infra.FXClient) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.NewRateLimiter(1000, time.Minute).Middleware()) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	keys := repository.NewKeys(cfg.StoreNamespace)
	quoteRepo := repository.NewQuoteRepository(store, keys)
	orderRepo := repository.NewOrderRequestRepository(store, keys)
	clientRepo := repository.NewClientRepository(store, keys)

	// ── Services ─────────────────────────────────────────────────────────────
	var jobs service.JobQueue
	if rdb != nil {
		jobs = worker.NewDispatcher(rdb)
	}
	draftSettings := DraftSettings(cfg)
	quoteSvc := service.NewQuoteService(quoteRepo, orderRepo, jobs, draftSettings)
	clientSvc := service.NewClientService(clientRepo)
	catalogSvc := service.NewCatalogService(erp, rdb, time.Duration(cfg.CatalogCacheTTLSeconds)*time.Second)
	drafts := service.NewDraftRegistry(draftSettings)

	// ── Handlers ─────────────────────────────────────────────────────────────
	draftH := handler.NewDraftHandler(drafts, quoteSvc, clientSvc, fx)
	quotesH := handler.NewQuotesHandler(quoteSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	clientsH := handler.NewClientsHandler(clientSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(store, rdb, erp.Breaker(), fx.Breaker()))

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		draft := v1.Group("/draft")
		{
			draft.GET("", draftH.Get)
			draft.DELETE("", draftH.Clear)
			draft.PUT("/currency", draftH.SetCurrency)
			draft.PUT("/exchange-rate", draftH.SetExchangeRate)
			draft.POST("/exchange-rate/refresh", draftH.RefreshExchangeRate)
			draft.PUT("/client", draftH.SetClient)
			draft.POST("/lines", draftH.AddLine)
			draft.PATCH("/lines/:lineId", draftH.UpdateLine)
			draft.DELETE("/lines/:lineId", draftH.RemoveLine)
			draft.POST("/extraction", draftH.ApplyExtraction)
			draft.POST("/save", draftH.Save)
		}

		quotes := v1.Group("/quotes")
		{
			quotes.GET("", quotesH.List)
			quotes.GET("/:id", quotesH.Get)
			quotes.PATCH("/:id/status", quotesH.UpdateStatus)
			quotes.POST("/:id/order", quotesH.GenerateOrder)
			quotes.POST("/:id/edit", draftH.EditQuote)
		}
		v1.GET("/orders", quotesH.ListOrders)

		v1.GET("/catalog/search", catalogH.Search)

		clients := v1.Group("/clients")
		{
			clients.GET("", clientsH.List)
			clients.GET("/:id", clientsH.Get)
			clients.POST("", clientsH.Create)
			clients.PUT("/:id", clientsH.Update)
			clients.DELETE("/:id", clientsH.Delete)
		}
	}

	// Swagger UI, outside production only
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
