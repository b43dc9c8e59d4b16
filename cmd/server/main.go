package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	rediscache "github.com/Frannkode/QuickOrder/internal/cache"
	"github.com/Frannkode/QuickOrder/internal/cart"
	"github.com/Frannkode/QuickOrder/internal/catalog"
	"github.com/Frannkode/QuickOrder/internal/httpapi"
	"github.com/Frannkode/QuickOrder/internal/localstore"
	"github.com/Frannkode/QuickOrder/internal/metrics"
	"github.com/Frannkode/QuickOrder/internal/orders"
	"github.com/Frannkode/QuickOrder/internal/publisher"
	"github.com/Frannkode/QuickOrder/internal/wishlist"
)

type Config struct {
	HTTPPort          string
	DataDir           string
	SQLitePath        string
	CatalogMigrations string
	PGHost            string
	PGPort            int
	PGUser            string
	PGPassword        string
	PGDBName          string
	OrdersMigrations  string
	RedisAddr         string
	KafkaBrokers      []string
	AdminEmails       []string
	StoreName         string
	StorePhone        string
	RequestTimeout    time.Duration
	ResyncInterval    time.Duration
	ShutdownTimeout   time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DataDir:           getEnv("DATA_DIR", "./data/localstore"),
		SQLitePath:        getEnv("SQLITE_PATH", "./data/catalog.db"),
		CatalogMigrations: getEnv("CATALOG_MIGRATIONS", "./migrations/catalog"),
		PGHost:            getEnv("PG_HOST", "localhost"),
		PGPort:            getEnvInt("PG_PORT", 5432),
		PGUser:            getEnv("PG_USER", "postgres"),
		PGPassword:        getEnv("PG_PASSWORD", "postgres"),
		PGDBName:          getEnv("PG_DBNAME", "quickorder"),
		OrdersMigrations:  getEnv("ORDERS_MIGRATIONS", "./migrations/orders"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:      splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		AdminEmails:       splitList(getEnv("ADMIN_EMAILS", "")),
		StoreName:         getEnv("STORE_NAME", "QuickOrder"),
		StorePhone:        getEnv("STORE_PHONE", ""),
		RequestTimeout:    30 * time.Second,
		ResyncInterval:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	cfg := loadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	reg := metrics.NewRegistry()

	// Device-local durable store: carts, wishlists and the order fallback
	// queue all live here and survive restarts.
	local, err := localstore.Open(cfg.DataDir)
	if err != nil {
		logger.Fatal("failed to open local store", zap.Error(err))
	}
	defer local.Close()

	catalogRepo, err := catalog.NewSQLiteRepository(cfg.SQLitePath)
	if err != nil {
		logger.Fatal("failed to open catalog database", zap.Error(err))
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(cfg.CatalogMigrations); err != nil {
		logger.Fatal("failed to run catalog migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	catalogCache := rediscache.NewRedisCache(redisClient)

	catalogSvc := catalog.NewService(catalogRepo, catalogCache, reg, logger)
	carts := cart.NewManager(local, logger)
	wishlistSvc := wishlist.NewService(local)

	pgCred := &orders.Credentials{
		Host:              cfg.PGHost,
		Port:              cfg.PGPort,
		User:              cfg.PGUser,
		Password:          cfg.PGPassword,
		DBName:            cfg.PGDBName,
		MigrationsDirPath: cfg.OrdersMigrations,
	}
	orderRepo, err := orders.NewPostgresRepository(pgCred)
	if err != nil {
		logger.Fatal("failed to connect to orders database", zap.Error(err))
	}
	defer orderRepo.Close()
	if err := orderRepo.RunMigrations(pgCred); err != nil {
		logger.Fatal("failed to run orders migrations", zap.Error(err))
	}

	queue := orders.NewFallbackQueue(local)
	ordersSvc := orders.NewService(orderRepo, queue, reg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := publisher.NewOutboxPoller(orderRepo, reg, logger, cfg.KafkaBrokers...)
	go poller.Run(ctx)

	// Queued orders retry on a fixed cadence until the repository takes them.
	go func() {
		ticker := time.NewTicker(cfg.ResyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ordersSvc.Resync(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	catalogHandler := httpapi.NewCatalogHandler(catalogSvc, logger)
	cartHandler := httpapi.NewCartHandler(carts, catalogSvc, logger)
	checkoutHandler := httpapi.NewCheckoutHandler(carts, ordersSvc, cfg.StoreName, cfg.StorePhone, logger)
	ordersHandler := httpapi.NewOrdersHandler(ordersSvc, logger)
	wishlistHandler := httpapi.NewWishlistHandler(wishlistSvc, logger)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(httpapi.SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method("GET", "/metrics", reg.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalogHandler.List)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.Clear)
			r.Post("/items", cartHandler.AddItem)
			r.Patch("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Checkout)
		r.Post("/checkout/validate", checkoutHandler.ValidateCustomer)

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.List)
			r.Post("/{product_id}", wishlistHandler.Toggle)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(httpapi.AdminAuthMiddleware(cfg.AdminEmails))

			r.Post("/products", catalogHandler.Create)
			r.Put("/products/{product_id}", catalogHandler.Update)
			r.Delete("/products/{product_id}", catalogHandler.Delete)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordersHandler.List)
				r.Patch("/{order_id}/status", ordersHandler.UpdateStatus)
				r.Patch("/{order_id}/notes", ordersHandler.UpdateNotes)
				r.Delete("/{order_id}", ordersHandler.Delete)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "quickorder"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
