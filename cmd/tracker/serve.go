package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tair/inventory-tracker/docs"
	"github.com/tair/inventory-tracker/internal/config"
	"github.com/tair/inventory-tracker/internal/inventory"
	"github.com/tair/inventory-tracker/internal/inventory/controller"
	grpcDelivery "github.com/tair/inventory-tracker/internal/inventory/delivery/grpc"
	httpDelivery "github.com/tair/inventory-tracker/internal/inventory/delivery/http"
	"github.com/tair/inventory-tracker/kafka"
	"github.com/tair/inventory-tracker/pkg/logger"
	"github.com/tair/inventory-tracker/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the inventory page, the JSON API and the gRPC health service",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("store", cfg.Store.Driver).
		Str("image_policy", string(cfg.ImagePolicy)).
		Msg("Starting inventory tracker")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracer(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := tracing.Shutdown(context.Background(), tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}()

	// Each instance is its own event source and consumer group so every
	// instance sees every change made elsewhere.
	instanceID := uuid.NewString()
	source := cfg.ServiceName + "-" + instanceID

	var publisher controller.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewPublisher(cfg.KafkaBrokers, source)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka publisher unavailable, changes will not be announced")
		} else {
			defer p.Close()
			publisher = p
		}
	}

	app, cleanup, err := inventory.InitializeApp(ctx, cfg, prometheus.DefaultRegisterer, publisher)
	if err != nil {
		return fmt.Errorf("failed to initialize tracker: %w", err)
	}
	defer cleanup()

	state := app.Controller.Refresh(ctx)
	logger.Logger.Info().Int("items", len(state.Items)).Msg("Initial inventory loaded")

	if len(cfg.KafkaBrokers) > 0 {
		startConsumer(ctx, cfg, app.Controller, source, instanceID)
	}

	go app.Health.Watch(ctx, cfg.HealthInterval)

	grpcServer := grpcDelivery.NewServer(app.Health)
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}
	go func() {
		logger.Logger.Info().Str("port", cfg.GRPCPort).Msg("gRPC health server started")
		if err := grpcServer.Serve(lis); err != nil {
			logger.Logger.Error().Err(err).Msg("gRPC server stopped")
		}
	}()

	var limiter *httpDelivery.RateLimiter
	if cfg.RateLimitRedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RateLimitRedisAddr})
		defer client.Close()
		limiter = httpDelivery.NewRateLimiter(client, cfg.Store.RedisPrefix, cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           newRouter(cfg, app, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("public_url", cfg.PublicBaseURL).
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		grpcServer.Stop()
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
	}
	grpcServer.GracefulStop()

	logger.Logger.Info().Msg("Server stopped")
	return nil
}

func newRouter(cfg *config.Config, app *inventory.App, limiter *httpDelivery.RateLimiter) http.Handler {
	router := mux.NewRouter()

	mwConfig := httpDelivery.DefaultMiddlewareConfig(app.Metrics)
	mwConfig.TimeoutDuration = cfg.RequestTimeout
	mwConfig.RateLimiter = limiter
	httpDelivery.RegisterMiddlewares(router, mwConfig)

	app.Handler.RegisterRoutes(router)
	app.Handler.RegisterHealthCheck(router)
	app.Files.RegisterRoutes(router, config.FilesPrefix)

	router.Handle("/metrics", promhttp.Handler())

	docs.SwaggerInfo.Host = "localhost:" + cfg.HTTPPort
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return httpDelivery.SetupCORS(mwConfig)(router)
}

func startConsumer(ctx context.Context, cfg *config.Config, ctrl *controller.Controller, source, instanceID string) {
	groupID := cfg.KafkaGroupID + "-" + instanceID
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, groupID, []string{kafka.TopicInventoryChanged}, source)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka consumer unavailable, remote changes will not refresh the page")
		return
	}

	consumer.RegisterHandler(kafka.EventTypeInventoryChanged, ctrl.HandleInventoryChanged)
	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to start Kafka consumer")
		consumer.Close()
		return
	}

	go func() {
		<-ctx.Done()
		if err := consumer.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		}
	}()
}
