package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookstore-storefront/internal/backend"
	"bookstore-storefront/internal/config"
	"bookstore-storefront/internal/db"
	"bookstore-storefront/internal/httpserver"
	blobrepo "bookstore-storefront/internal/repository/blob"
	cartsvc "bookstore-storefront/internal/service/cart"
	checkoutsvc "bookstore-storefront/internal/service/checkout"
	ledgersvc "bookstore-storefront/internal/service/ledger"
	sessionsvc "bookstore-storefront/internal/service/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	blobs := blobrepo.NewPostgres(dbpool)
	cartService := cartsvc.New(blobs, logger)
	ledgerService := ledgersvc.New(blobs, logger)
	sessionService := sessionsvc.New()
	backendClient := backend.New(cfg.BackendBaseURL)
	verifier := checkoutsvc.NewDelayVerifier(cfg.PaymentVerifyDelay)
	checkoutService := checkoutsvc.New(logger, cartService, ledgerService, backendClient, verifier)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		SessionSvc:  sessionService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		LedgerSvc:   ledgerService,
	}, cfg.CORSAllowOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
