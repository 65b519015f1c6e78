package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/skburgers/backend/api/routes"
	"github.com/skburgers/backend/internal/address"
	"github.com/skburgers/backend/internal/catalog"
	checkoutsvc "github.com/skburgers/backend/internal/checkout"
	driverssvc "github.com/skburgers/backend/internal/drivers"
	"github.com/skburgers/backend/internal/finance"
	"github.com/skburgers/backend/internal/insights"
	"github.com/skburgers/backend/internal/inventory"
	"github.com/skburgers/backend/internal/marketing"
	orderssvc "github.com/skburgers/backend/internal/orders"
	"github.com/skburgers/backend/internal/pricing"
	"github.com/skburgers/backend/internal/storeconfig"
	"github.com/skburgers/backend/pkg/auth/session"
	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/db"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/logger"
	"github.com/skburgers/backend/pkg/metrics"
	"github.com/skburgers/backend/pkg/migrate"
	"github.com/skburgers/backend/pkg/outbox"
	"github.com/skburgers/backend/pkg/redis"
)

// orderWriter narrows the orders repository to the surface checkout needs.
type orderWriter struct {
	repo orderssvc.Repository
}

func (w orderWriter) WithTx(tx *gorm.DB) checkoutsvc.OrderCreator {
	return orderWriter{repo: w.repo.WithTx(tx)}
}

func (w orderWriter) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	return w.repo.Create(ctx, order)
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessions, err := session.NewManager(redisClient, cfg.Access)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)

	configSvc, err := storeconfig.NewService(dbClient.DB(), redisClient, outboxSvc, cfg.Access, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create config service", err)
		os.Exit(1)
	}

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	inventorySvc, err := inventory.NewService(inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogSvc, err := catalog.NewService(catalogRepo, inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	driversRepo := driverssvc.NewRepository(dbClient.DB())
	driversSvc, err := driverssvc.NewService(driversRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create drivers service", err)
		os.Exit(1)
	}

	ordersRepo := orderssvc.NewRepository(dbClient.DB())
	ordersSvc, err := orderssvc.NewService(ordersRepo, dbClient, outboxSvc, driversSvc, inventorySvc, catalogSvc, cfg.Delivery)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	calculator := pricing.NewCalculator(cfg.Pricing, cfg.Delivery)

	checkoutSvc, err := checkoutsvc.NewService(
		orderWriter{repo: ordersRepo},
		catalogSvc,
		configSvc,
		calculator,
		dbClient,
		outboxSvc,
		cfg.Store,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	financeSvc, err := finance.NewService(dbClient.DB(), configSvc, calculator)
	if err != nil {
		logg.Error(context.Background(), "failed to create finance service", err)
		os.Exit(1)
	}

	marketingSvc, err := marketing.NewService(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create marketing service", err)
		os.Exit(1)
	}

	insightsSvc, err := insights.NewService(insights.NewClient(cfg.OpenAI), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create insights service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        dbClient,
		RedisClient:     redisClient,
		Sessions:        sessions,
		CheckoutService: checkoutSvc,
		OrdersService:   ordersSvc,
		OrdersRepo:      ordersRepo,
		CatalogService:  catalogSvc,
		CatalogRepo:     catalogRepo,
		InventorySvc:    inventorySvc,
		InventoryRepo:   inventoryRepo,
		DriversService:  driversSvc,
		ConfigService:   configSvc,
		FinanceService:  financeSvc,
		InsightsService: insightsSvc,
		MarketingSvc:    marketingSvc,
		AddressClient:   address.NewClient(cfg.ViaCEP, cfg.Store),
		OrderMetrics:    orderMetrics,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
