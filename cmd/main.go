package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardregistry/internal/config"
	"cardregistry/internal/database"
	"cardregistry/internal/handler"
	"cardregistry/internal/logger"
	"cardregistry/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Pretty: true})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	// Initialize database
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open the database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("Failed to close the database")
		}
	}()

	// Initialize services
	registrationService := service.NewRegistrationService(db, log)
	studentService := service.NewStudentService(db)
	importService := service.NewImportService(registrationService, log)

	// Initialize handlers
	importHandler := handler.NewImportHandler(importService, cfg.UploadDir, log)
	router := handler.NewRouter(handler.Handlers{
		Registration: handler.NewRegistrationHandler(registrationService, log),
		Students:     handler.NewStudentHandler(studentService),
		Import:       importHandler,
		Progress:     handler.NewProgressHandler(importService, log),
	}, cfg.CORSOrigins, log)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Form available")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown")
	}
	importHandler.Wait()
}
