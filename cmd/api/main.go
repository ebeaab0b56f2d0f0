package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"stocksync-core-layer/internal/application"
	"stocksync-core-layer/internal/application/adapters"
	"stocksync-core-layer/internal/domain"
	amazoninfra "stocksync-core-layer/internal/infrastructure/amazon"
	"stocksync-core-layer/internal/infrastructure/cache"
	"stocksync-core-layer/internal/infrastructure/encryption"
	"stocksync-core-layer/internal/infrastructure/metrics"
	"stocksync-core-layer/internal/infrastructure/repository"
	shopifyinfra "stocksync-core-layer/internal/infrastructure/shopify"
	"stocksync-core-layer/internal/infrastructure/vault"
	"stocksync-core-layer/internal/infrastructure/views"
	woocommerceinfra "stocksync-core-layer/internal/infrastructure/woocommerce"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	companymiddleware "stocksync-core-layer/internal/infrastructure/middleware"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Get configuration from environment
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(os.Getenv("MONGODB_DATABASE"))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer redisClient.Close()

	// Get encryption key
	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	if encryptionKey == "" {
		logger.Fatal().Msg("ENCRYPTION_KEY environment variable is required")
	}

	// Initialize infrastructure (implementations)
	encryptionService, err := encryption.NewService(encryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}

	// Initialize repositories
	integrationRepo := repository.NewMongoIntegrationRepository(db)
	inventoryRepo := repository.NewMongoInventoryRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	syncLogRepo := repository.NewMongoSyncLogRepository(db)
	syncStateRepo := repository.NewMongoSyncStateRepository(db)
	credentialVault := vault.NewMongoVault(db)

	// Initialize application services
	secretService := application.NewSecretService(credentialVault, encryptionService, logger)
	connectService := application.NewConnectService(integrationRepo, secretService, logger)

	adapterDeps := adapters.Deps{
		Secrets:   secretService,
		Inventory: inventoryRepo,
		Orders:    orderRepo,
		SyncState: syncStateRepo,
		Logger:    logger,
	}

	syncMetrics := metrics.NewSyncMetrics()
	dispatcher := application.NewDispatcher(
		integrationRepo,
		syncLogRepo,
		cache.NewRedisInvalidator(redisClient, logger),
		views.NewMongoViewRefresher(db, logger),
		syncMetrics,
		logger,
	)
	dispatcher.Register(adapters.NewShopifyAdapter(shopifyinfra.NewClient(logger), adapterDeps))
	dispatcher.Register(adapters.NewWooCommerceAdapter(woocommerceinfra.NewClient(logger), adapterDeps))
	dispatcher.Register(adapters.NewAmazonAdapter(amazoninfra.NewSimulatedSource(), adapterDeps))

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Company scoping middleware; skips public routes like /health,
	// /metrics and /swagger/*
	r.Use(companymiddleware.CompanyIDMiddleware(logger))

	// Public routes (no company id required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation - public
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Routes requiring company id
	r.Get("/api/integrations", listIntegrationsHandler(connectService, logger))
	r.Post("/api/{platform}/connect", connectHandler(connectService, logger))
	r.Post("/api/{platform}/sync", syncHandler(connectService, dispatcher, logger))
	r.Delete("/api/{platform}/disconnect", disconnectHandler(connectService, logger))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// listIntegrationsHandler returns the company's integrations with their
// current sync status, for status polling by the frontend.
func listIntegrationsHandler(connectService *application.ConnectService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		companyID := domain.CompanyIDFromContext(ctx)

		integrations, err := connectService.List(ctx, companyID)
		if err != nil {
			logger.Error().Err(err).Str("companyId", companyID).Msg("Failed to list integrations")
			writeError(w, http.StatusInternalServerError, "failed to list integrations")
			return
		}
		if integrations == nil {
			integrations = []*domain.Integration{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"integrations": integrations})
	}
}

// connectHandler validates platform credentials and creates the
// integration.
func connectHandler(connectService *application.ConnectService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		companyID := domain.CompanyIDFromContext(ctx)
		platform := domain.Platform(chi.URLParam(r, "platform"))

		var req application.ConnectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		integration, err := connectService.Connect(ctx, companyID, platform, req)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUnsupportedPlatform):
				writeError(w, http.StatusNotFound, err.Error())
			case errors.Is(err, application.ErrInvalidCredentials):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				logger.Error().Err(err).Str("companyId", companyID).Msg("Failed to connect integration")
				writeError(w, http.StatusInternalServerError, "failed to connect integration")
			}
			return
		}
		writeJSON(w, http.StatusCreated, integration)
	}
}

// syncHandler triggers a full sync in the background and returns
// immediately. A trigger while a sync is running is accepted and
// silently dropped by the dispatcher's concurrency guard.
func syncHandler(connectService *application.ConnectService, dispatcher *application.Dispatcher, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		companyID := domain.CompanyIDFromContext(ctx)
		platform := domain.Platform(chi.URLParam(r, "platform"))

		var req struct {
			IntegrationID string `json:"integrationId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IntegrationID == "" {
			writeError(w, http.StatusBadRequest, "integrationId is required")
			return
		}

		// The sync outlives the request; detach it from the request
		// context but keep the company scope.
		syncCtx := domain.WithCompanyID(context.Background(), companyID)
		go func() {
			if err := dispatcher.RunSync(syncCtx, req.IntegrationID, companyID); err != nil {
				logger.Error().
					Err(err).
					Str("integrationId", req.IntegrationID).
					Str("platform", string(platform)).
					Msg("Background sync failed")
			}
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"message": "Sync started",
		})
	}
}

// disconnectHandler deletes the integration and its stored credentials.
func disconnectHandler(connectService *application.ConnectService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		companyID := domain.CompanyIDFromContext(ctx)

		var req struct {
			IntegrationID string `json:"integrationId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IntegrationID == "" {
			writeError(w, http.StatusBadRequest, "integrationId is required")
			return
		}

		if err := connectService.Disconnect(ctx, companyID, req.IntegrationID); err != nil {
			if errors.Is(err, domain.ErrNotFoundOrForbidden) {
				writeError(w, http.StatusNotFound, "integration not found")
				return
			}
			logger.Error().Err(err).Str("integrationId", req.IntegrationID).Msg("Failed to disconnect integration")
			writeError(w, http.StatusInternalServerError, "failed to disconnect integration")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Integration disconnected"})
	}
}
