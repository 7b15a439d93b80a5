package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Tony-Omondi/wamugunda-farm/internal/cart"
	"github.com/Tony-Omondi/wamugunda-farm/internal/catalog"
	"github.com/Tony-Omondi/wamugunda-farm/internal/config"
	"github.com/Tony-Omondi/wamugunda-farm/internal/payment"
	"github.com/Tony-Omondi/wamugunda-farm/internal/server"
)

func main() {
	cfg := config.Load()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	catalogService := catalog.NewService(catalog.NewClient(cfg.CatalogBaseURL))
	cartService := cart.NewService(cart.NewRedisStore(redisClient))
	gateway := payment.NewHTTPGateway(cfg.PaymentBaseURL)
	registry := payment.NewRegistry()

	paymentCfg := payment.Config{
		MaxAttempts:  cfg.MaxAttempts,
		PollInterval: cfg.PollInterval,
	}

	router := server.NewRouter(server.Deps{
		Catalog:        server.NewCatalogHandler(catalogService),
		Cart:           server.NewCartHandler(cartService, catalogService),
		Checkout:       server.NewCheckoutHandler(cartService, gateway, registry, paymentCfg),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	// Stop any in-flight payment confirmation polling first so no state is
	// emitted to a dying process.
	registry.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
