package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"folik-store/internal/config"
	"folik-store/internal/db"
	"folik-store/internal/httpserver"
	cartrepo "folik-store/internal/repository/cart"
	orderrepo "folik-store/internal/repository/order"
	productrepo "folik-store/internal/repository/product"
	cartsvc "folik-store/internal/service/cart"
	catalogsvc "folik-store/internal/service/catalog"
	checkoutsvc "folik-store/internal/service/checkout"
	sessionsvc "folik-store/internal/service/session"
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

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	catalogService := catalogsvc.New(productRepo, cfg.MediaURLHost)
	cartService := cartsvc.New(cartRepo, productRepo)
	checkoutService := checkoutsvc.New(cartRepo, orderRepo)
	sessionService := sessionsvc.New(cfg.SessionCookie, cfg.SessionTTL)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:  catalogService,
		Cart:     cartService,
		Checkout: checkoutService,
		Session:  sessionService,
		Products: productRepo,
		Orders:   orderRepo,
	})
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
