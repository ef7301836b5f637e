package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/onlineboutique/checkout/internal/checkout"
	"github.com/onlineboutique/checkout/internal/checkout/clients"
	"github.com/onlineboutique/checkout/internal/checkout/httpx"
	orderlogsqlite "github.com/onlineboutique/checkout/internal/checkout/orderlog/sqlite"
	"github.com/onlineboutique/checkout/internal/currency"
	"github.com/onlineboutique/checkout/internal/pkg/cache"
	"github.com/onlineboutique/checkout/internal/pkg/metrics"
	"github.com/onlineboutique/checkout/internal/pkg/telemetry"
)

const serviceName = "checkout"

func main() {
	ctx := context.Background()
	telemetry.InitLogger(serviceName)

	shutdown, err := telemetry.SetupTracer(ctx, serviceName)
	if err != nil {
		slog.Error("tracing disabled", "error", err)
	} else {
		defer shutdown(context.Background())
	}

	httpAddr := getEnv("HTTP_ADDR", ":5050")
	cartURL := getEnv("CART_SERVICE_URL", "http://localhost:3552")
	catalogURL := getEnv("PRODUCT_CATALOG_SERVICE_URL", "http://localhost:3550")
	paymentURL := getEnv("PAYMENT_SERVICE_URL", "http://localhost:3554")
	shippingURL := getEnv("SHIPPING_SERVICE_URL", "http://localhost:3555")
	emailURL := getEnv("EMAIL_SERVICE_URL", "http://localhost:3556")
	redisAddr := os.Getenv("REDIS_ADDR") // empty disables the product cache
	orderLogPath := getEnv("ORDER_LOG_PATH", "./data/orders.db")

	snap, err := currency.SeedSnapshot()
	if err != nil {
		slog.Error("load rate table", "error", err)
		os.Exit(1)
	}
	converter := currency.NewLoggingService(slog.Default(),
		currency.NewService(currency.NewTable(snap)))

	var productCache cache.Cache
	if redisAddr != "" {
		productCache = cache.NewRedis(redisAddr, serviceName)
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	col := checkout.Collaborators{
		Cart:      clients.NewCartClient(cartURL, httpClient),
		Catalog:   clients.NewCatalogClient(catalogURL, httpClient, productCache),
		Converter: converter,
		Payment:   clients.NewPaymentClient(paymentURL, httpClient),
		Shipping:  clients.NewShippingClient(shippingURL, httpClient),
		Email:     clients.NewEmailClient(emailURL, httpClient),
	}

	orderLog, err := orderlogsqlite.Open(orderLogPath)
	if err != nil {
		slog.Error("open order log", "error", err)
		os.Exit(1)
	}
	defer orderLog.Close()

	orch := checkout.New(col, orderLog, metrics.NewCheckout(), slog.Default(), checkout.Config{
		StepTimeout:        getEnvDuration("STEP_TIMEOUT", 5*time.Second),
		PricingConcurrency: getEnvInt("PRICING_CONCURRENCY", 4),
		StrictEmail:        os.Getenv("STRICT_EMAIL") == "true",
	})

	router := httpx.NewRouter(httpx.NewHandler(orch, converter, orderLog))

	slog.Info("checkout service listening", "addr", httpAddr)
	if err := http.ListenAndServe(httpAddr, router); err != nil {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
