package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ecofinds/marketplace/internal/account"
	"github.com/ecofinds/marketplace/internal/cart"
	"github.com/ecofinds/marketplace/internal/catalog"
	"github.com/ecofinds/marketplace/internal/checkout"
	"github.com/ecofinds/marketplace/internal/config"
	"github.com/ecofinds/marketplace/internal/events"
	"github.com/ecofinds/marketplace/internal/history"
	"github.com/ecofinds/marketplace/internal/httpx"
	kafkax "github.com/ecofinds/marketplace/internal/kafka"
	"github.com/ecofinds/marketplace/internal/postgres"
	"github.com/ecofinds/marketplace/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	cache := &redisx.ListingCache{R: rdb}

	// Kafka producers
	orderProd := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderCompleted, 1024)
	orderProd.Start(ctx)
	soldProd := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicListingSold, 1024)
	soldProd.Start(ctx)

	// Repos & handlers
	auth := httpx.Authenticator([]byte(cfg.JWTSecret))
	router := httpx.NewRouter()

	ah := &httpx.AccountHandler{
		Accounts:   &account.Repo{DB: db},
		JWTSecret:  []byte(cfg.JWTSecret),
		SessionTTL: cfg.SessionTTL,
	}
	ah.Register(router, auth)

	ch := &httpx.CatalogHandler{
		Listings: &catalog.Repo{DB: db},
		Cache:    cache,
	}
	ch.Register(router, auth)

	crh := &httpx.CartHandler{Carts: &cart.Repo{DB: db}}
	crh.Register(router, auth)

	coh := &httpx.CheckoutHandler{
		Engine:        &checkout.Engine{DB: db},
		History:       &history.Repo{DB: db},
		OrderProducer: orderProd,
		SoldProducer:  soldProd,
		Cache:         cache,
		Service:       cfg.ServiceName,
	}
	coh.Register(router, auth)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	orderProd.Close()
	soldProd.Close()
	orderProd.WaitClosed()
	soldProd.WaitClosed()
}
