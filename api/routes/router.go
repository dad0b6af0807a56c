package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saikganesh/navajothi-jewels-backend/api/controllers"
	"github.com/saikganesh/navajothi-jewels-backend/api/middleware"
	authsvc "github.com/saikganesh/navajothi-jewels-backend/internal/auth"
	cartsvc "github.com/saikganesh/navajothi-jewels-backend/internal/cart"
	checkoutsvc "github.com/saikganesh/navajothi-jewels-backend/internal/checkout"
	ratesvc "github.com/saikganesh/navajothi-jewels-backend/internal/goldrates"
	ordersvc "github.com/saikganesh/navajothi-jewels-backend/internal/orders"
	productsvc "github.com/saikganesh/navajothi-jewels-backend/internal/products"
	"github.com/saikganesh/navajothi-jewels-backend/internal/realtime"
	wishlistsvc "github.com/saikganesh/navajothi-jewels-backend/internal/wishlist"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/auth/session"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/config"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/db"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/logger"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	cache db.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	sessions session.AccessSessionChecker,
	authService authsvc.Service,
	productService productsvc.Service,
	rateService ratesvc.Service,
	cartService cartsvc.Service,
	cartRegistry *realtime.Registry,
	wishlistService wishlistsvc.Service,
	checkoutService checkoutsvc.Service,
	orderService ordersvc.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, cache, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(authService, logg))
		r.Post("/login", controllers.Login(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Post("/logout", controllers.Logout(authService, logg))
			r.Get("/me", controllers.Me(authService, logg))
		})
	})

	// Public storefront surface. Browsing needs no account.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductsList(productService, logg))
		r.Get("/products/{id}", controllers.ProductDetail(productService, logg))
		r.Get("/rates/latest", controllers.RatesLatest(rateService, logg))
		r.Get("/rates/history", controllers.RatesHistory(rateService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(cartService, logg))
				r.Post("/", controllers.CartAdd(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.Get("/stream", controllers.CartStream(cartRegistry, logg))
				r.Patch("/{productID}", controllers.CartUpdateQuantity(cartService, logg))
				r.Delete("/{productID}", controllers.CartRemove(cartService, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(wishlistService, logg))
				r.Post("/", controllers.WishlistAdd(wishlistService, logg))
				r.Post("/toggle", controllers.WishlistToggle(wishlistService, logg))
				r.Delete("/{productID}", controllers.WishlistRemove(wishlistService, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", controllers.CheckoutCreate(checkoutService, logg))
				r.Post("/verify", controllers.CheckoutVerify(checkoutService, logg))
				r.Post("/{orderID}/cancel", controllers.CheckoutCancel(checkoutService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(orderService, logg))
				r.Get("/{orderID}", controllers.OrderDetail(orderService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))

		r.Post("/products", controllers.ProductCreate(productService, logg))
		r.Patch("/products/{id}", controllers.ProductUpdate(productService, logg))
		r.Delete("/products/{id}", controllers.ProductDelete(productService, logg))

		r.Post("/rates", controllers.RatesPublish(rateService, logg))

		r.Get("/orders", controllers.AdminOrdersList(orderService, logg))
		r.Get("/orders/{orderID}", controllers.AdminOrderDetail(orderService, logg))
		r.Patch("/orders/{orderID}/status", controllers.AdminOrderStatusUpdate(orderService, logg))
	})

	return r
}
