// @title           Closet Sync Development API
// @version         1.0.0
// @description     Development backend for the closet sync client: garments, coins, outfits, try-on avatars and stylist chat.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"closet-sync/internal/config"
	"closet-sync/internal/database"
	"closet-sync/internal/handlers"
	"closet-sync/internal/logger"
	"closet-sync/internal/services"
	"closet-sync/internal/stylist"
	"closet-sync/internal/supabase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewForEnvironment(cfg.Environment, cfg.LogLevel)
	defer log.Sync()

	if err := cfg.ValidateServer(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(ctx, cfg, log)
	defer store.Close()

	ingestion := services.NewIngestion(store, nil, cfg.IngestionDelay, log)
	defer ingestion.Close()

	var replier stylist.Replier = stylist.Canned{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := stylist.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			log.Warn("Gemini unavailable, using canned stylist", zap.Error(err))
		} else {
			defer gemini.Close()
			replier = gemini
		}
	}

	var images handlers.Images
	if cfg.HasSupabase() {
		storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
		if err != nil {
			log.Fatal("failed to initialize storage client", zap.Error(err))
		}
		images = storageClient
	} else {
		log.Warn("SUPABASE_URL not set, serving image keys from the local base URL")
	}

	router := handlers.NewRouter(handlers.Deps{
		Config:    cfg,
		Store:     store,
		Ingestion: ingestion,
		Replier:   replier,
		Images:    images,
		Log:       log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}

// openStore returns the Postgres store when DATABASE_URL is set, applying
// migrations first, and the in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) database.Store {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory store")
		return database.NewMemoryStore()
	}

	migrator, err := database.NewMigrator(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("failed to initialize migrator", zap.Error(err))
	}
	defer migrator.Close()
	if err := migrator.Run(ctx); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migrations completed successfully")

	dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to initialize database client", zap.Error(err))
	}
	return dbClient
}
