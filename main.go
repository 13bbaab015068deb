// main.go
package main

import (
	"context"
	"log"

	"event-ticketing/cmd"
	"event-ticketing/internal/data/repository"
	"event-ticketing/internal/events"
	"event-ticketing/internal/gateway"
	"event-ticketing/internal/wire"
	"event-ticketing/pkg/database"
	"event-ticketing/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Payment gateways
	razorpayGw := gateway.NewRazorpayGateway(
		config.Razorpay.KeyID,
		config.Razorpay.KeySecret,
		config.Payment.GatewayTimeout,
		logger,
	)
	stripeGw := gateway.NewStripeGateway(
		config.Stripe.SecretKey,
		config.Stripe.SuccessURL,
		config.Stripe.CancelURL,
		config.Payment.GatewayTimeout,
		logger,
	)

	// Event bus: fallback ke noop kalau redis tidak bisa dihubungi,
	// settlement tetap jalan tanpa notifikasi
	var publisher events.Publisher
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Warn("Redis unavailable, booking events disabled", zap.Error(err))
		publisher = events.NewNoopPublisher()
	} else {
		logger.Info("Redis connected successfully", zap.String("addr", config.Redis.Addr))
		publisher = events.NewRedisPublisher(rdb, logger)
	}
	defer rdb.Close()

	// Wire all dependencies
	app := wire.Wiring(repos, razorpayGw, stripeGw, publisher, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
