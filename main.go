package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/advocatehq/causelist-http-service/causelist"
	"github.com/advocatehq/causelist-http-service/common/config"
	"github.com/advocatehq/causelist-http-service/common/db"
	"github.com/advocatehq/causelist-http-service/common/logger"
	"github.com/advocatehq/causelist-http-service/common/messaging"
	"github.com/advocatehq/causelist-http-service/common/storage"
	"github.com/advocatehq/causelist-http-service/notifier"
	"github.com/advocatehq/causelist-http-service/scheduler"

	"github.com/rs/zerolog/log"

	"github.com/joho/godotenv"

	_ "github.com/advocatehq/causelist-http-service/docs"
)

// @title          Causelist HTTP Service API
// @version        1.0
// @description    API for scraping and serving Telangana High Court causelists
// @termsOfService http://swagger.io/terms/

// @contact.name  API Support
// @contact.email support@advocatehq.in

// @host     localhost:8080
// @BasePath /v1
// @schemes  http https

// @securityDefinitions.apikey ApiKeyAuth
// @in                         header
// @name                       X-API-KEY

func main() {
	// INITIATE CONFIGURATION
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("Error loading .env file, using environment variables")
	}

	cfg := config.DefaultConfig()
	cfg.LoadFromEnv()

	// Create a base context with cancel for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// INITIATE DATABASES
	dbConn, err := db.SetupDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup database")
	}
	defer dbConn.Close()

	// Initialize zerolog database hooks
	logger.InitializeLogging(dbConn)
	log.Info().Msg("Zerolog database hooks initialized")

	// INITIATE NATS CLIENT
	natsClient, err := messaging.SetupNatsBroker(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup NATS client")
	}
	defer natsClient.Close()

	// gcs
	var gcsStorage storage.StorageService
	if cfg.GCS.Bucket != "" {
		gcsStorage, err = storage.NewGCSStorage(ctx, storage.GCSConfig{
			ProjectID:       cfg.GCS.ProjectID,
			CredentialsFile: cfg.GCS.CredentialsFile,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to setup GCS storage")
		}
	} else {
		log.Warn().Msg("GCS bucket not configured, raw page archival disabled")
	}

	// The scraper tries the plain HTTP session first and falls back to a
	// headless browser when the site serves a page the session client
	// cannot handle.
	scraper, err := causelist.NewScraper(
		causelist.NewSessionTransport(cfg.Court),
		causelist.NewBrowserTransport(cfg.Court),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create the scraper")
	}

	dispatcher := notifier.NewDispatcher(natsClient, cfg.Smtp)

	// INITIATE DAILY SCHEDULER
	dailyRun := scheduler.New(cfg, dbConn, scraper, gcsStorage, dispatcher)
	if err := dailyRun.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start the scheduler")
	}
	defer dailyRun.Stop()

	// INITIATE SERVER
	server, err := NewAppHttpServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create the server")
	}

	// Inject dependencies
	server.SetDB(dbConn)
	server.SetNatsClient(natsClient)
	server.SetScraper(scraper)
	server.SetStorage(gcsStorage)

	// Setup routes
	server.setupRoute()

	// Start server in a goroutine
	go func() {
		if err := server.start(); err != nil {
			log.Error().Err(err).Msg("Server error")
			cancel()
		}
	}()

	log.Info().Str("address", cfg.Listen.Addr()).Msg("Server started successfully")
	log.Info().Str("swagger", fmt.Sprintf("http://%s/swagger/index.html", cfg.Listen.Addr())).Msg("Swagger documentation available at")

	// Wait for shutdown signal
	<-shutdown
	log.Info().Msg("Shutdown signal received")

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Server gracefully stopped")
}
