package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Table-Side/Order/internal/app"
	"github.com/Table-Side/Order/internal/catalog"
	"github.com/Table-Side/Order/internal/clock"
	"github.com/Table-Side/Order/internal/config"
	"github.com/Table-Side/Order/internal/kitchen"
	"github.com/Table-Side/Order/internal/storage/postgres"
	transporthttp "github.com/Table-Side/Order/internal/transport/http"
	"github.com/Table-Side/Order/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	repo := postgres.NewRepository(pool)
	catalogClient := catalog.NewClient(cfg.CatalogURL, cfg.UpstreamTimeout)
	kitchenClient := kitchen.NewClient(cfg.KitchenURL, cfg.UpstreamTimeout)

	orderSvc := app.NewOrderService(repo, clock.NewSystem())
	itemSvc := app.NewItemService(repo, catalogClient, clock.NewSystem())
	checkoutSvc := app.NewCheckoutService(repo, catalogClient, kitchenClient, clock.NewSystem(), slogger,
		app.WithCurrency(cfg.Currency))

	auth := transporthttp.GatewayAuthorizer{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", transporthttp.HealthHandler)
	mux.Handle("POST /orders", transporthttp.HandleCreateOrder(auth, orderSvc))
	mux.Handle("GET /orders/{id}", transporthttp.HandleGetOrder(auth, orderSvc))
	mux.Handle("DELETE /orders/{id}", transporthttp.HandleAbandonOrder(auth, orderSvc))
	mux.Handle("POST /orders/{id}/checkout", transporthttp.HandleCheckout(auth, checkoutSvc))
	mux.Handle("POST /orders/{id}/items", transporthttp.HandleAddItem(auth, itemSvc))
	mux.Handle("PATCH /orders/{id}/items/{itemID}", transporthttp.HandleUpdateQuantity(auth, itemSvc))
	mux.Handle("DELETE /orders/{id}/items/{itemID}", transporthttp.HandleRemoveItem(auth, itemSvc))
	mux.Handle("GET /users/{id}/orders/active", transporthttp.HandleListActive(auth, orderSvc))
	mux.Handle("GET /users/{id}/orders/history", transporthttp.HandleListHistory(auth, orderSvc))
	mux.Handle("GET /internal/orders/{id}", transporthttp.HandleInternalGetOrder(orderSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Recovery sweep: compensate transactions left pending by a crash
	// between commit and dispatch confirmation.
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCtx.Done():
				return
			case <-ticker.C:
				sweepCtx, sweepCancel := context.WithTimeout(stopCtx, cfg.SweepInterval)
				if _, err := checkoutSvc.CompensateStalePending(sweepCtx, cfg.SweepCutoff); err != nil {
					slogger.Error("recovery sweep failed", "error", err)
				}
				sweepCancel()
			}
		}
	}()

	log.Printf("order api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
