package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/saikganesh/navajothi-jewels-backend/api/routes"
	"github.com/saikganesh/navajothi-jewels-backend/internal/auth"
	"github.com/saikganesh/navajothi-jewels-backend/internal/cart"
	"github.com/saikganesh/navajothi-jewels-backend/internal/checkout"
	"github.com/saikganesh/navajothi-jewels-backend/internal/goldrates"
	"github.com/saikganesh/navajothi-jewels-backend/internal/orders"
	"github.com/saikganesh/navajothi-jewels-backend/internal/pricing"
	"github.com/saikganesh/navajothi-jewels-backend/internal/products"
	"github.com/saikganesh/navajothi-jewels-backend/internal/realtime"
	"github.com/saikganesh/navajothi-jewels-backend/internal/wishlist"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/auth/session"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/config"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/db"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/logger"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/metrics"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/migrate"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/razorpay"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gatewayClient, err := razorpay.NewClient(context.Background(), cfg.Razorpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create razorpay client", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	rateRepo := goldrates.NewRepository(dbClient.DB())
	pricingProvider, err := pricing.NewProvider(rateRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing provider", err)
		os.Exit(1)
	}
	pricingProvider.Refresh(context.Background())

	cartPublisher, err := realtime.NewPublisher(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart publisher", err)
		os.Exit(1)
	}
	cartSource, err := realtime.NewRedisSource(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart event source", err)
		os.Exit(1)
	}
	cartRegistry, err := realtime.NewRegistry(cartSource)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart stream registry", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.NewRepository(dbClient.DB()), sessionManager, cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(productRepo, pricingProvider)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	rateService, err := goldrates.NewService(rateRepo, redisClient, pricingProvider, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create gold rate service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), productRepo, cartPublisher, pricingProvider, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.NewRepository(dbClient.DB()), productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	orderRepo := orders.NewRepository(dbClient.DB())
	orderService, err := orders.NewService(orderRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	stock := func(tx *gorm.DB) interface {
		AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
	} {
		return products.NewRepository(tx)
	}
	checkoutService, err := checkout.NewService(orderRepo, cartService, stock, gatewayClient, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

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
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			httpMetrics,
			promRegistry,
			sessionManager,
			authService,
			productService,
			rateService,
			cartService,
			cartRegistry,
			wishlistService,
			checkoutService,
			orderService,
		),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server stopped")
	}
}
