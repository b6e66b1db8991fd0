package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-backend/internal/config"
	"restaurant-backend/internal/database"
	"restaurant-backend/internal/logger"
	"restaurant-backend/internal/messaging"
	"restaurant-backend/internal/server"
	"restaurant-backend/internal/services/auth"
	"restaurant-backend/internal/services/employee"
	"restaurant-backend/internal/services/kitchen"
	"restaurant-backend/internal/services/order"
	"restaurant-backend/internal/services/product"
	"restaurant-backend/internal/services/promo"
	"restaurant-backend/internal/services/report"
	"restaurant-backend/internal/sessions"
)

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (api, kitchen-notifier)")
		port       = flag.Int("port", 0, "HTTP port override for api mode")
		configPath = flag.String("config", "config.yaml", "Path to the config file")
		prefetch   = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", requestID, fmt.Sprintf("Starting %s", *mode),
		"mode", *mode, "port", cfg.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", requestID, "Received shutdown signal")
		cancel()
	}()

	switch *mode {
	case "api":
		if err := runAPI(ctx, cfg, log); err != nil {
			log.Error("service_failed", requestID, "API service failed", err)
			os.Exit(1)
		}
	case "kitchen-notifier":
		if err := runKitchenNotifier(ctx, cfg, log, *prefetch); err != nil && err != context.Canceled {
			log.Error("service_failed", requestID, "Kitchen notifier failed", err)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", requestID, fmt.Sprintf("Unknown mode: %s", *mode), nil)
		os.Exit(1)
	}

	log.Info("service_stopped", requestID, "Service stopped gracefully")
}

// runAPI runs the HTTP backend
func runAPI(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", requestID, "Connected to PostgreSQL database")

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", requestID, "Connected to RabbitMQ")

	tokens := sessions.NewRedisStore(cfg.RedisAddr())
	defer tokens.Close()

	if err := tokens.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("redis_connected", requestID, "Connected to Redis")

	publisher := messaging.NewPublisher(conn, log)
	tokenTTL := time.Duration(cfg.Auth.TokenTTLDays) * 24 * time.Hour

	authService := auth.NewService(auth.NewPgStore(db), tokens, tokenTTL, log)
	orderService := order.NewService(order.NewPgStore(db), publisher, log)
	productService := product.NewService(product.NewPgStore(db), log)
	employeeService := employee.NewService(employee.NewPgStore(db), log)
	promoService := promo.NewService(promo.NewPgStore(db), log)
	reportService := report.NewService(report.NewPgStore(db), log)

	handlers := server.Handlers{
		Auth:     auth.NewHandler(authService, log),
		Order:    order.NewHandler(orderService, log),
		Product:  product.NewHandler(productService, log),
		Employee: employee.NewHandler(employeeService, log),
		Promo:    promo.NewHandler(promoService, log),
		Report:   report.NewHandler(reportService, log),
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.NewRouter(handlers, authService),
	}

	go func() {
		log.Info("server_started", requestID,
			fmt.Sprintf("API listening on port %d", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", requestID, "HTTP server failed", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}

// runKitchenNotifier consumes order events and prints them for the kitchen
func runKitchenNotifier(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.KitchenQueue, "kitchen-notifier", prefetch)
	subscriber := kitchen.NewSubscriber(consumer, log)

	return subscriber.Start(ctx)
}
