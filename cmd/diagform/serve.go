package main

import (
	"context"
	"diagform/internal/cache"
	"diagform/internal/config"
	"diagform/internal/dispatch"
	"diagform/internal/repository"
	"diagform/internal/service"
	"diagform/internal/transport/rest"
	"diagform/internal/transport/rest/middleware"
	"diagform/internal/transport/ws"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the HTTP server exposing POST /submit, POST /submit-radar and the admin live feed.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	snapshots, closeStore, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	artifacts, err := repository.NewArtifactDir(cfg.DataDir)
	if err != nil {
		return err
	}
	mailer := newMailer(cfg)

	// Initialize WebSocket hub
	wsHub := ws.NewHub(logger)
	defer wsHub.Close()

	// Initialize services
	settings := cfg.DispatchSettings()
	diagnosticSvc := service.NewDiagnosticService(snapshots, artifacts, mailer, settings, cfg.FieldLabels(), cfg.ReportOptions(), logger)
	radarSvc := service.NewRadarService(artifacts, mailer, settings, logger)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	diagnosticSvc.SetBroadcaster(wsHub)
	radarSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		DiagnosticService: diagnosticSvc,
		RadarService:      radarSvc,
		WSHub:             wsHub,
		FeedToken:         cfg.FeedToken,
		CORS: middleware.CORSOptions{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: cfg.CORSAllowedMethods,
			AllowedHeaders: cfg.CORSAllowedHeaders,
		},
		MaxBodyBytes: cfg.MaxBodyBytes,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("snapshotBackend", cfg.SnapshotBackend),
			zap.Bool("smtp", cfg.MailEnabled()),
			zap.Int("adminRecipients", len(cfg.AdminRecipients)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}

func newMailer(cfg *config.Config) dispatch.Mailer {
	if !cfg.MailEnabled() {
		logger.Warn("SMTP credentials not set, emails will only be logged")
		return dispatch.NewLogMailer(logger)
	}
	return dispatch.NewSMTPMailer(cfg.SMTP(), logger)
}

// openSnapshotStore connects the configured backend and returns its cleanup func
func openSnapshotStore(ctx context.Context, cfg *config.Config) (repository.SnapshotStore, func(), error) {
	switch cfg.SnapshotBackend {
	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		store := repository.NewMongoSnapshotStore(client.Database(cfg.MongoDatabase))
		return store, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURI)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid REDIS_URI: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("failed to ping Redis: %w", err)
		}
		logger.Info("connected to Redis", zap.Duration("ttl", cfg.SnapshotTTL))
		return cache.NewSnapshotCache(rdb, cfg.SnapshotTTL), func() { _ = rdb.Close() }, nil

	default:
		store, err := repository.NewFileSnapshotStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
