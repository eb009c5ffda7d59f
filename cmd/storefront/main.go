package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/truls-star/therwatt-nettbutikk/internal/catalog"
	"github.com/truls-star/therwatt-nettbutikk/internal/checkout"
	"github.com/truls-star/therwatt-nettbutikk/internal/httpapi"
	"github.com/truls-star/therwatt-nettbutikk/internal/images"
	"github.com/truls-star/therwatt-nettbutikk/internal/payment"
	"github.com/truls-star/therwatt-nettbutikk/pkg/logger"
)

type config struct {
	HTTPAddr        string
	CatalogPath     string
	CatalogDB       string
	MigrationsPath  string
	DiscountRate    float64
	Currency        string
	SiteURL         string
	StaticDir       string
	ImagePattern    string
	ImageFallback   string
	ImageLookupURL  string
	RedisAddr       string
	StripeSecret    string
	StripeHandle    string
	LogLevel        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() (config, error) {
	rate, err := getEnvFloat("DISCOUNT_RATE", 0.20)
	if err != nil {
		return config{}, err
	}
	return config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		CatalogPath:     getEnv("CATALOG_PATH", "assets/products.json"),
		CatalogDB:       getEnv("CATALOG_DB", ""),
		MigrationsPath:  getEnv("CATALOG_MIGRATIONS", "internal/catalog/migrations"),
		DiscountRate:    rate,
		Currency:        getEnv("CURRENCY", "nok"),
		SiteURL:         getEnv("SITE_URL", "http://localhost:8080"),
		StaticDir:       getEnv("STATIC_DIR", ""),
		ImagePattern:    getEnv("IMAGE_URL_PATTERN", "https://images.nobb.no/products/%s.jpg"),
		ImageFallback:   getEnv("IMAGE_FALLBACK_URL", "/assets/images/no-image.svg"),
		ImageLookupURL:  getEnv("IMAGE_LOOKUP_URL", ""),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		StripeSecret:    getEnv("STRIPE_SECRET_KEY", ""),
		StripeHandle:    getEnv("STRIPE_PUBLISHABLE_KEY", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logger.New(logger.Options{Service: "storefront", Level: "info"}).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "storefront", Level: cfg.LogLevel})

	if cfg.DiscountRate < 0 || cfg.DiscountRate >= 1 {
		log.Error("DISCOUNT_RATE must be in [0,1)", "rate", cfg.DiscountRate)
		os.Exit(1)
	}

	// --- catalog ---
	var src catalog.Source
	if cfg.CatalogDB != "" {
		sqliteSrc, err := catalog.NewSQLiteSource(cfg.CatalogDB)
		if err != nil {
			log.Error("open catalog db failed", "error", err)
			os.Exit(1)
		}
		defer sqliteSrc.Close()
		if err := sqliteSrc.RunMigrations(cfg.MigrationsPath); err != nil {
			log.Error("catalog migrations failed", "error", err)
			os.Exit(1)
		}
		src = sqliteSrc
		log.Info("catalog backed by sqlite", "path", cfg.CatalogDB)
	} else {
		src = catalog.NewFeedSource(cfg.CatalogPath)
		log.Info("catalog backed by json feed", "path", cfg.CatalogPath)
	}

	// --- image resolver, redis cache optional ---
	var imageCache images.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis unreachable, image cache disabled", "error", err)
		} else {
			imageCache = images.NewRedisCache(redisClient)
			log.Info("image cache enabled", "addr", cfg.RedisAddr)
		}
	}
	resolver := images.NewResolver(cfg.ImagePattern, cfg.ImageFallback, cfg.ImageLookupURL, imageCache, log)

	// --- checkout ---
	provider := payment.NewStripeProvider(cfg.StripeSecret, cfg.Currency, log)
	checkoutSvc := checkout.NewService(src, provider, checkout.Config{
		DiscountRate: cfg.DiscountRate,
		SuccessURL:   cfg.SiteURL + "/success.html",
		CancelURL:    cfg.SiteURL + "/cancel.html",
	}, log)

	publicCfg := httpapi.PublicConfig{DiscountRate: cfg.DiscountRate}
	if cfg.StripeHandle != "" {
		publicCfg.PaymentProviderHandle = &cfg.StripeHandle
	}
	if cfg.StripeSecret == "" {
		log.Warn("STRIPE_SECRET_KEY not set, checkout will be rejected")
	}

	h := httpapi.NewHandler(src, checkoutSvc, resolver, publicCfg, log)
	router := httpapi.NewRouter(h, cfg.StaticDir, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "storefront"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr, "discount_rate", cfg.DiscountRate)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
	}

	log.Info("server exited")
}
