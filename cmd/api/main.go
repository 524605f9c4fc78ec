package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bunthoeuntok/salarean-sub000/internal/config"
	"github.com/bunthoeuntok/salarean-sub000/internal/httpapi"
	"github.com/bunthoeuntok/salarean-sub000/internal/obs"
	"github.com/bunthoeuntok/salarean-sub000/internal/roster"
	"github.com/bunthoeuntok/salarean-sub000/internal/rostercache"
	"github.com/bunthoeuntok/salarean-sub000/internal/store/pg"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)

	// With no DSN the service runs on the in-memory store. Useful for local
	// development and demos; production always sets SALAREAN_PG_DSN.
	var (
		store   roster.Store
		pgStore *pg.Store
	)
	if cfg.PGDSN != "" {
		pgStore, err = pg.Open(cfg.PGDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		store = pgStore
	} else {
		log.Println("SALAREAN_PG_DSN not set, using in-memory store")
		store = roster.NewInMemory()
	}

	var cache roster.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cache = rostercache.NewRedis(client, cfg.CacheTTL)
	} else {
		cache = rostercache.NewMemory(cfg.CacheTTL)
	}

	svc := roster.NewService(store, cache)

	probe := httpapi.ReadyProbe{}
	if pgStore != nil {
		probe.DB = pgStore.DB()
	}
	api := httpapi.New(probe, version, svc)
	api.SetLimits(cfg.RateBurst, cfg.RatePerSec, cfg.MaxBodyBytes)
	api.SetTokenTTL(cfg.TokenTTL)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting roster-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if pgStore != nil {
		_ = pgStore.Close()
	}
	log.Println("Stopped")
}
