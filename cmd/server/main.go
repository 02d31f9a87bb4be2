package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/sherryumlah/geoPhoto/geophoto/application"
	"github.com/sherryumlah/geoPhoto/geophoto/geocoding"
	"github.com/sherryumlah/geoPhoto/geophoto/media"
	"github.com/sherryumlah/geoPhoto/geophoto/persistence"
	"github.com/sherryumlah/geoPhoto/internal/config"
	"github.com/sherryumlah/geoPhoto/internal/middleware"
	"github.com/sherryumlah/geoPhoto/internal/rest"
	"github.com/sherryumlah/geoPhoto/shared/db/sqlite"
	"github.com/sherryumlah/geoPhoto/shared/events"
)

const (
	shutdownTimeout = 5 * time.Second
	// defaultAccuracy stands in for a GPS accuracy reading on configured
	// coordinates, in meters
	defaultAccuracy = 10.0
)

func main() {
	// A missing .env file is fine; the environment still applies
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.DBPath})
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	bus := events.NewBus()
	files := media.NewDiskStore()
	library := media.NewLibrary(cfg.LibraryRoot)
	camera := media.NewFileCamera(cfg.PhotoDir)

	repo := persistence.NewGeoPhotoRepository(database.DB(), bus, files, library, cfg.AlbumPrefix)

	var source geocoding.FixSource
	if cfg.HasFix() {
		source = geocoding.StaticFixSource(*cfg.Latitude, *cfg.Longitude, defaultAccuracy)
	}
	provider := geocoding.NewProvider(cfg.LocationAllowed, source, geocoding.NewClient(cfg.GeocodeEndpoint))

	locationSvc := application.NewLocationService(provider)
	locationSvc.Refetch(context.Background())

	captureSvc := application.NewCaptureService(camera, locationSvc, library, repo, bus, cfg.AlbumPrefix)

	service := gin.New()
	service.Use(middleware.LoggingMiddleware())
	service.Use(gin.CustomRecovery(middleware.HandlePanics()))

	rest.NewApi(service, repo, captureSvc, camera, locationSvc)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: service,
	}

	go func() {
		log.Info().Msg("Starting server on port :" + fmt.Sprint(cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
