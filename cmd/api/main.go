package main

// @title Land Use Microservice API
// @version 1.0.0
// @description Microservice for enriching geographic coordinates and plot polygons with land-use context. Aggregates administrative divisions, cadastral parcels, municipal zoning classifications, land cover, elevation and nearby amenities from public geospatial services.
// @description
// @description Main capabilities:
// @description - Point and polygon enrichment across country-aware provider layers
// @description - Municipal zoning classification resolved through OGC API collections
// @description - Cadastral parcel lookup for Portugal and Spain (INSPIRE WFS)
// @description - Permanent zoning-rules cache derived from municipal planning documents

// @contact.name API Support
// @contact.email support@landuse-microservice.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/landuse-microservice/docs"
	"github.com/landuse-microservice/internal/config"
	httpDelivery "github.com/landuse-microservice/internal/delivery/http"
	"github.com/landuse-microservice/internal/delivery/http/handler"
	"github.com/landuse-microservice/internal/infrastructure/document"
	"github.com/landuse-microservice/internal/infrastructure/llm"
	"github.com/landuse-microservice/internal/infrastructure/nominatim"
	"github.com/landuse-microservice/internal/infrastructure/ogc"
	"github.com/landuse-microservice/internal/infrastructure/overpass"
	"github.com/landuse-microservice/internal/pkg/logger"
	"github.com/landuse-microservice/internal/provider"
	"github.com/landuse-microservice/internal/repository/cache"
	"github.com/landuse-microservice/internal/repository/postgres"
	"github.com/landuse-microservice/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Land Use Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	cacheRepo := cache.NewCacheRepository(redisClient)
	enrichmentRepo := postgres.NewEnrichmentRepository(db)
	zoningRulesRepo := postgres.NewZoningRulesRepository(db)
	municipalityRepo := postgres.NewMunicipalityRepository(db)

	log.Info("Repositories initialized")

	// 7. Initialize upstream clients
	queryTimeout := cfg.Providers.QueryTimeout
	ogcClient := ogc.NewClient(cfg.Providers.OGCBaseURL, queryTimeout, log)
	geocoder := nominatim.NewClient(cfg.Providers.NominatimBaseURL, queryTimeout, log)
	overpassClient := overpass.NewClient(cfg.Providers.OverpassBaseURL, queryTimeout, log)
	documentFetcher := document.NewFetcher(queryTimeout, log)
	rulesExtractor := llm.NewExtractor(&cfg.LLM, log)

	// 8. Initialize layer providers and the country router
	resolver := provider.NewCollectionResolver(ogcClient, cacheRepo, "concelhos", log)

	router := provider.NewRouter(
		[]provider.LayerProvider{
			provider.NewAdminUnit(cfg.Providers.AdminBaseURL, queryTimeout, log),
			provider.NewElevation(cfg.Providers.ElevationBaseURL, queryTimeout, log),
			provider.NewAmenities(overpassClient, queryTimeout, log),
		},
		map[string][]provider.LayerProvider{
			"PT": {
				provider.NewCadastrePT(cfg.Providers.CadastrePTBaseURL, queryTimeout, log),
				provider.NewZoning(ogcClient, resolver, queryTimeout, log),
				provider.NewLandCover(ogcClient, "", queryTimeout, log),
			},
			"ES": {
				provider.NewCadastreES(cfg.Providers.CadastreESBaseURL, queryTimeout, log),
			},
		},
	)

	log.Info("Layer providers initialized", zap.Strings("layers", router.AllIDs()))

	// 9. Initialize Use Cases
	enrichmentUC := usecase.NewEnrichmentUseCase(
		router,
		geocoder,
		cacheRepo,
		enrichmentRepo,
		log,
		cfg.Cache.ResponseCacheTTL,
	)

	zoningRulesUC := usecase.NewZoningRulesUseCase(
		municipalityRepo,
		zoningRulesRepo,
		documentFetcher,
		rulesExtractor,
		log,
	)

	log.Info("Use cases initialized")

	// 10. Initialize HTTP Handlers
	layerInfoHandler := handler.NewLayerInfoHandler(enrichmentUC, log)
	zoningRulesHandler := handler.NewZoningRulesHandler(zoningRulesUC, log)

	log.Info("HTTP handlers initialized")

	// 11. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		layerInfoHandler,
		zoningRulesHandler,
	)

	log.Info("HTTP server initialized")

	// 12. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 13. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
