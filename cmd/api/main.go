package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotbook/internal/api"
	"slotbook/internal/config"
	"slotbook/internal/database"
	"slotbook/internal/domain"
	"slotbook/internal/events"
	"slotbook/internal/export"
	"slotbook/internal/logging"
	"slotbook/internal/metrics"
	"slotbook/internal/models"
	"slotbook/internal/repository"
	"slotbook/internal/service"
	"slotbook/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	services, err := loadServices(cfg, &logger)
	if err != nil {
		return err
	}

	db, err := initDatabase(cfg, services, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting API application. Check your config.")
	}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	cache := buildCatalogCache(cfg, redisClient, &logger)

	eventBus := events.NewEventBus()

	catalog := service.NewCatalogService(db, cache, &logger)
	schedule := service.NewScheduleService(db, cfg.Scheduling.MaxRangeDays, &logger)
	booking := service.NewBookingService(db, catalog, eventBus, &logger)

	exporter := buildExporter(cfg, db, &logger)

	httpServer := api.NewHTTPServer(cfg.API, schedule, booking, catalog, exporter, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startNotifier(ctx, cfg, eventBus, &logger)
	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// loadServices reads the catalog seed. A standalone services.yaml takes
// precedence over the services block in config.yaml.
func loadServices(cfg *config.Config, logger *zerolog.Logger) ([]models.Service, error) {
	servicesPath := os.Getenv("SERVICES_PATH")
	if servicesPath == "" {
		servicesPath = "configs/services.yaml"
	}

	data, err := os.ReadFile(servicesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg.Services, nil
		}
		logger.Error().Err(err).Str("services_path", servicesPath).Msg("read services")
		return nil, err
	}

	var seed struct {
		Services []models.Service `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		logger.Error().Err(err).Str("services_path", servicesPath).Msg("parse services")
		return nil, err
	}
	if err := config.ValidateServices(seed.Services); err != nil {
		return nil, err
	}

	return seed.Services, nil
}

func initDatabase(cfg *config.Config, services []models.Service, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	if len(services) > 0 {
		if err := db.SyncServices(context.Background(), services); err != nil {
			logger.Error().Err(err).Msg("sync service catalog")
			return nil, err
		}
		logger.Info().Int("count", len(services)).Msg("service catalog synced")
	}
	return db, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)

	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// buildCatalogCache prefers redis with an in-memory fallback; without redis
// the in-memory cache serves alone.
func buildCatalogCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.CatalogCache {
	memory := repository.NewMemoryCatalogCache(models.DefaultCatalogCacheTTL)
	if redisClient == nil {
		return memory
	}

	primary := repository.NewRedisCatalogCache(redisClient, models.DefaultCatalogCacheTTL)
	return repository.NewFailoverCatalogCache(primary, memory, logger)
}

func buildExporter(cfg *config.Config, db *database.DB, logger *zerolog.Logger) *export.Exporter {
	if cfg.Exports.Path == "" {
		return nil
	}
	return export.NewExporter(db, cfg.Exports.Path, logger)
}

func startNotifier(ctx context.Context, cfg *config.Config, eventBus *events.EventBus, logger *zerolog.Logger) {
	if !cfg.Notifications.Enabled {
		return
	}

	mailer := &worker.LogMailer{Logger: logger}
	notifier := worker.NewNotifier(mailer, worker.RetryPolicy{
		Attempts: cfg.Notifications.RetryAttempts,
	}, cfg.Notifications.QueueSize, logger)
	notifier.BindTo(eventBus)

	go notifier.Start(ctx)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
