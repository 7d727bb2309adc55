package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/grocerylist/backend/internal/adapters/cache"
	"github.com/zatekoja/grocerylist/backend/internal/adapters/events"
	"github.com/zatekoja/grocerylist/backend/internal/api/handlers"
	"github.com/zatekoja/grocerylist/backend/internal/api/routes"
	"github.com/zatekoja/grocerylist/backend/internal/application/services"
	"github.com/zatekoja/grocerylist/backend/internal/bootstrap"
	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/clients/openai"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/grocerylist/backend/pkg/config"
	"github.com/zatekoja/grocerylist/backend/pkg/retry"
	"github.com/zatekoja/grocerylist/backend/pkg/secrets"
)

func main() {
	// Secrets must be in the environment before configuration is read.
	vaultResult, vaultErr := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv(), retry.DefaultConfig())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Env, cfg.Log.Level)

	if vaultErr != nil {
		log.Warn().Err(vaultErr).Str("path", vaultResult.Path).Msg("failed to load secrets from vault")
	} else if vaultResult.Enabled {
		log.Info().Str("path", vaultResult.Path).Int("loaded", vaultResult.Loaded).Int("skipped", vaultResult.Skipped).Msg("secrets loaded from vault")
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pipeline, err := bootstrap.NewPipeline(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build extraction pipeline")
	}
	defer pipeline.Close()
	pipeline.Service.SetMetrics(metrics)
	if pipeline.Completion == nil {
		log.Warn().Msg("language model fallback disabled")
	}

	// Redis is optional; without it the parse cache is per instance.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &cfg.Redis, retry.DefaultConfig())
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing with the in-memory cache only")
		} else {
			defer redisClient.Close()
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("redis client initialized")
		}
	}

	memory := cache.NewMemoryAdapter(cfg.Cache.Capacity)
	var parseCache providers.ParseResultCache = memory
	var sharedCache providers.CacheProvider
	var eventBus providers.EventBus
	var invalidation *services.CacheInvalidationService

	if redisClient != nil {
		instanceID := uuid.NewString()
		sharedCache = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		parseCache = cache.NewTieredAdapter(memory, sharedCache, eventBus, cfg.Cache.RedisTTL, instanceID)

		invalidation = services.NewCacheInvalidationService(memory, eventBus, instanceID)
		if err := invalidation.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start cache invalidation service")
			invalidation = nil
		} else {
			log.Info().Str("instance_id", instanceID).Msg("cache invalidation service started")
		}
	}

	cached := services.NewCachedRecipeService(pipeline.Service, parseCache)
	cached.SetMetrics(metrics)
	batch := services.NewBatchServiceFromConfig(cached, pipeline.Normalizer, cfg.Pipeline)

	var warmingDone <-chan struct{}
	if len(cfg.Cache.WarmURLs) > 0 {
		warmer := services.NewCacheWarmingService(batch, cfg.Cache.WarmURLs)
		warmingDone = warmer.StartPeriodicWarming(ctx, cfg.Cache.WarmInterval)
	}

	recipeHandler := handlers.NewRecipeHandler(cached, batch, cached, cfg.Server.MaxBatchURLs)

	// The completion endpoint proxies to OpenAI and needs a key.
	var completionHandler *handlers.CompletionHandler
	if cfg.OpenAI.APIKey != "" {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize OpenAI client, completion endpoint disabled")
		} else {
			defer openaiClient.Close()
			completionHandler = handlers.NewCompletionHandler(openaiClient, sharedCache, cfg.Server.CompletionRateLimit)
		}
	} else {
		log.Warn().Msg("OPENAI_API_KEY is not set, completion endpoint disabled")
	}

	router := routes.NewRouter(recipeHandler, completionHandler, cfg.Server.AllowedOrigins, metrics)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Batches and streams fetch many pages before finishing.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	cancel()
	if warmingDone != nil {
		<-warmingDone
	}
	if invalidation != nil {
		invalidation.Stop()
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
