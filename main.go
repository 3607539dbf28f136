package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careerpath_portal/apiclient"
	"careerpath_portal/config"
	"careerpath_portal/db"
	"careerpath_portal/explore"
	"careerpath_portal/handlers"
	"careerpath_portal/logging"
	"careerpath_portal/middleware"
	"careerpath_portal/routes"
	"careerpath_portal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found") // Non-fatal in production
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// No timeout unless configured: a hung forum request stays pending.
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	api, err := apiclient.New(cfg.UpstreamURL, httpClient, logger.Named("forum"))
	if err != nil {
		logger.Fatal("invalid forum api url", zap.Error(err))
	}

	ctx := context.Background()
	var (
		database *sql.DB
		store    session.Store
	)
	switch cfg.SessionStore {
	case config.StorePostgres:
		database, err = db.Initialize(ctx, db.Config{DSN: cfg.DSN(), MaxOpenConns: 10, ConnMaxLifetime: time.Hour}, logger)
		if err != nil {
			logger.Fatal("error connecting to the database", zap.Error(err))
		}
		defer database.Close()

		if err := db.InitSchema(ctx, database); err != nil {
			logger.Fatal("error initializing database schema", zap.Error(err))
		}
		if err := db.SeedData(ctx, database); err != nil {
			logger.Warn("error seeding initial data", zap.Error(err))
		}
		pg := session.NewPGStore(database, cfg.SessionTTL)
		if n, err := pg.DeleteExpired(ctx); err != nil {
			logger.Warn("error purging expired sessions", zap.Error(err))
		} else if n > 0 {
			logger.Info("purged expired sessions", zap.Int64("count", n))
		}
		store = pg
	default:
		store = session.NewMemStore()
	}

	portal := &handlers.Portal{
		Sessions:   session.NewManager(store, api, logger.Named("session")),
		Pages:      explore.NewRegistry(api, logger.Named("explore")),
		Tokens:     middleware.NewTokenService([]byte(cfg.JWTSecret), cfg.SessionTTL),
		Account:    api,
		Categories: db.NewCategoryStore(database),
		Logger:     logger,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go portal.Pages.Run(sweepCtx, 0, cfg.PageIdleTTL)

	// Initialize router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.AllowMethods = []string{
		"GET",
		"POST",
		"PUT",
		"DELETE",
	}
	r.Use(cors.New(corsConfig))

	routes.SetupRoutes(r, portal, database)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		logger.Info("portal listening", zap.String("addr", srv.Addr), zap.String("forum", cfg.UpstreamURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
}
