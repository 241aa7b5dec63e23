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

	"medicine-catalog/internal/handler"
	"medicine-catalog/internal/router"
)

func runServer(ctx context.Context) error {
	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info().Msg("starting medicine catalog server")

	store, err := a.newStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize upload store: %w", err)
	}

	medicineService, err := a.newService(store)
	if err != nil {
		return err
	}

	// Initialize HTTP handlers
	medicineHandler := handler.NewMedicineHandler(medicineService, a.cfg.Upload.MaxBytes, a.logger)
	apiHandler := handler.NewMedicineAPIHandler(medicineService, a.logger)
	uploadHandler := handler.NewUploadHandler(store, a.logger)

	// Initialize router
	mux := router.New(medicineHandler, apiHandler, uploadHandler, a.cfg.Auth.APIKey, a.logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         a.cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		a.logger.Info().
			Str("address", a.cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		a.logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				a.logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		a.logger.Info().Msg("server shutdown completed")
	}

	return nil
}
