package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skburgers/backend/api/controllers"
	"github.com/skburgers/backend/api/middleware"
	"github.com/skburgers/backend/internal/address"
	"github.com/skburgers/backend/internal/catalog"
	checkoutsvc "github.com/skburgers/backend/internal/checkout"
	driverssvc "github.com/skburgers/backend/internal/drivers"
	"github.com/skburgers/backend/internal/finance"
	"github.com/skburgers/backend/internal/insights"
	"github.com/skburgers/backend/internal/inventory"
	"github.com/skburgers/backend/internal/marketing"
	orderssvc "github.com/skburgers/backend/internal/orders"
	"github.com/skburgers/backend/internal/storeconfig"
	"github.com/skburgers/backend/pkg/auth/session"
	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/enums"
	"github.com/skburgers/backend/pkg/logger"
	"github.com/skburgers/backend/pkg/metrics"
	pkgredis "github.com/skburgers/backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger    controllers.Pinger
	RedisClient *pkgredis.Client

	Sessions *session.Manager

	CheckoutService checkoutsvc.Service
	OrdersService   orderssvc.Service
	OrdersRepo      orderssvc.Repository
	CatalogService  *catalog.Service
	CatalogRepo     catalog.Repository
	InventorySvc    *inventory.Service
	InventoryRepo   inventory.Repository
	DriversService  *driverssvc.Service
	ConfigService   *storeconfig.Service
	FinanceService  *finance.Service
	InsightsService *insights.Service
	MarketingSvc    *marketing.Service
	AddressClient   *address.Client

	OrderMetrics *metrics.OrderMetrics
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": deps.DBPinger,
			"redis":    deps.RedisClient,
		}))
	})

	// Customer surface: no session, PIN gates do not apply.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/menu", controllers.Menu(deps.CatalogService, deps.ConfigService, logg))
		r.Post("/menu/upsell", controllers.Upsell(deps.CatalogService, deps.InsightsService, logg))
		r.Get("/address/{cep}", controllers.AddressLookup(deps.AddressClient, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Idempotency(deps.RedisClient, logg))
			r.Post("/checkout", controllers.Checkout(deps.CheckoutService, deps.OrderMetrics, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/staff/login", controllers.StaffLogin(deps.ConfigService, deps.Sessions, cfg.JWT, logg))
			r.Post("/driver/login", controllers.DriverLogin(deps.DriversService, deps.Sessions, cfg.JWT, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
				r.Post("/logout", controllers.Logout(deps.Sessions, logg))
			})
		})

		// Staff surfaces: session required, role checked per group.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.Idempotency(deps.RedisClient, logg))

			r.Route("/kitchen", func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(logg, enums.ActorRoleKitchen, enums.ActorRoleAdmin))
				r.Get("/queue", controllers.KitchenQueue(deps.OrdersRepo, cfg.Delivery, logg))
				r.Post("/orders/{orderId}/start", controllers.KitchenStartProduction(deps.OrdersService, deps.OrderMetrics, logg))
				r.Post("/orders/{orderId}/ready", controllers.KitchenMarkReady(deps.OrdersService, deps.OrderMetrics, logg))
			})

			r.Route("/dispatch", func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(logg, enums.ActorRoleKitchen, enums.ActorRoleAdmin))
				r.Get("/board", controllers.DispatchBoard(deps.OrdersRepo, deps.DriversService, logg))
				r.Post("/batch", controllers.DispatchBatch(deps.OrdersService, deps.OrderMetrics, logg))
				r.Post("/drivers/{driverId}/free", controllers.DispatchFreeDriver(deps.OrdersService, deps.OrderMetrics, logg))
			})

			r.Route("/driver", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.ActorRoleDriver, logg))
				r.Get("/orders", controllers.DriverRoute(deps.OrdersRepo, logg))
				r.Post("/orders/{orderId}/complete", controllers.DriverCompleteDelivery(deps.OrdersService, deps.OrderMetrics, logg))
				r.Post("/orders/{orderId}/extras", controllers.DriverAddExtra(deps.OrdersService, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.ActorRoleAdmin, logg))

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.AdminListOrders(deps.OrdersRepo, logg))
					r.Get("/{orderId}", controllers.AdminGetOrder(deps.OrdersRepo, logg))
					r.Get("/{orderId}/whatsapp", controllers.OrderWhatsAppLink(deps.OrdersRepo, logg))
					r.Post("/{orderId}/complete", controllers.AdminCompleteOrder(deps.OrdersService, deps.OrderMetrics, logg))
					r.Post("/{orderId}/cancel", controllers.AdminCancelOrder(deps.OrdersService, deps.OrderMetrics, logg))
				})

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.AdminListProducts(deps.CatalogService, logg))
					r.Post("/", controllers.AdminCreateProduct(deps.CatalogRepo, logg))
					r.Get("/costs", controllers.AdminProductCosts(deps.CatalogService, logg))
					r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.CatalogRepo, logg))
					r.Post("/{productId}/pause", controllers.AdminPauseProduct(deps.CatalogService, logg))
					r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.CatalogRepo, logg))
				})

				r.Route("/inventory", func(r chi.Router) {
					r.Get("/", controllers.AdminListInventory(deps.InventoryRepo, logg))
					r.Get("/low", controllers.AdminLowInventory(deps.InventorySvc, logg))
					r.Post("/", controllers.AdminCreateInventoryItem(deps.InventoryRepo, logg))
					r.Patch("/{itemId}", controllers.AdminUpdateInventoryItem(deps.InventoryRepo, logg))
					r.Delete("/{itemId}", controllers.AdminDeleteInventoryItem(deps.InventoryRepo, logg))
				})

				r.Route("/drivers", func(r chi.Router) {
					r.Get("/", controllers.AdminListDrivers(deps.DriversService, logg))
					r.Post("/", controllers.AdminCreateDriver(deps.DriversService, logg))
					r.Post("/{driverId}/status", controllers.AdminSetDriverStatus(deps.DriversService, logg))
					r.Post("/{driverId}/pin", controllers.AdminResetDriverPIN(deps.DriversService, logg))
					r.Delete("/{driverId}", controllers.AdminDeleteDriver(deps.DriversService, logg))
				})

				r.Get("/config", controllers.AdminGetConfig(deps.ConfigService, logg))
				r.Patch("/config", controllers.AdminUpdateConfig(deps.ConfigService, logg))

				r.Get("/finance/daily", controllers.AdminDailyFinance(deps.FinanceService, logg))
				r.Get("/finance/fiscal", controllers.AdminFiscalReport(deps.FinanceService, logg))
				r.Get("/insights", controllers.AdminInsights(deps.FinanceService, deps.InsightsService, logg))
				r.Get("/marketing/missing-customers", controllers.AdminMissingCustomers(deps.MarketingSvc, logg))
			})
		})
	})

	return r
}
