package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fulfillment/cmd"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	config := getConfigs(logger)

	gormDB, err := openDatabase(config)
	if err != nil {
		logger.Error("failed to connect database", "error", err)
		os.Exit(1)
	}

	app, err := cmd.NewCompositionRoot(config, gormDB, logger)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}
	defer app.EventBus().Close()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		logger.Error("failed to start jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	app.CreateHTTPServer().RegisterRoutes(e, []byte(config.AuthSecret))
	e.GET("/ws", app.CreateWebsocketGateway().Handle)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); err != nil {
			logger.Info("http server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("no .env file found, relying on environment")
	}

	return cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOr("DB_USER", "postgres"),
		DBPassword: envOr("DB_PASSWORD", "postgres"),
		DBName:     envOr("DB_NAME", "fulfillment"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		AuthSecret: envOr("AUTH_SECRET", ""),

		PushGatewayURL:      envOr("PUSH_GATEWAY_URL", "http://localhost:9100"),
		RoutingServiceURL:   envOr("ROUTING_SERVICE_URL", "http://localhost:5000"),
		GeocodingServiceURL: envOr("GEOCODING_SERVICE_URL", "http://localhost:8088"),

		DeliveryFee:      envFloatOr("DELIVERY_FEE", 50),
		FreeDeliveryOver: envFloatOr("FREE_DELIVERY_OVER", 1000),
		TaxRate:          envFloatOr("TAX_RATE", 0.10),

		StaleWatchSchedule: envOr("STALE_WATCH_SCHEDULE", "*/5 * * * *"),
		StaleReadyAge:      envDurationOr("STALE_READY_AGE", 30*time.Minute),
		StaleTransitAge:    envDurationOr("STALE_TRANSIT_AGE", 2*time.Hour),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func openDatabase(config cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSslMode)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}
