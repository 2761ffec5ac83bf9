package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tapsika/application"
	"tapsika/config"
	"tapsika/database"
	"tapsika/domain/events"
	"tapsika/gateway"
	"tapsika/repository"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()

	log.Info("Connecting to database...")
	databaseURL := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)
	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	application.RegisterSubscriptions(eventBus)
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	engine := application.NewEngine(uowFactory)

	worker := application.NewVoucherExpiryWorker(engine, time.Duration(cfg.VoucherSweepIntervalMinutes)*time.Minute)
	if err := worker.Start(ctx); err != nil {
		return fmt.Errorf("failed to start voucher expiry worker: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           gateway.NewRouter(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":        cfg.ListenAddr,
			"environment": cfg.Environment,
		}).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := worker.Stop(); err != nil {
		log.WithError(err).Error("Voucher expiry worker shutdown failed")
	}

	db.Close()
	log.Info("Shutdown completed")

	return nil
}
