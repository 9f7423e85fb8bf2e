// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gocab/internal/config"
	"gocab/internal/events"
	httptransport "gocab/internal/http"
	"gocab/internal/infra"
	"gocab/internal/maps"
	"gocab/internal/modules/location"
	"gocab/internal/modules/matching"
	"gocab/internal/modules/pricing"
	"gocab/internal/modules/ride"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log.Level)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Error("connecting to postgres", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// The live geo index runs in memory unless Redis is configured.
	var index location.Index = location.NewMemoryIndex()
	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Error("connecting to redis", "err", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		index = location.NewGeoStore(redisClient)
	}

	locationStore := location.NewStore(dbPool)
	locationSvc := location.NewService(index, locationStore, locationStore, cfg.Dispatch.SnapshotEach, log)

	matchingSvc := matching.NewService(index, cfg.Dispatch.RadiusMeters)

	var provider maps.Provider
	var geocodeSvc *maps.GeocodeService
	if cfg.Maps.APIKey != "" {
		gp, err := maps.NewGoogleProvider(cfg.Maps.APIKey)
		if err != nil {
			log.Error("creating maps provider", "err", err)
			os.Exit(1)
		}
		provider = gp

		geocodeSvc, err = maps.NewGeocodeService(cfg.Maps.APIKey)
		if err != nil {
			log.Error("creating geocode service", "err", err)
			os.Exit(1)
		}
	}
	resolver := maps.NewResolver(provider, time.Duration(cfg.Route.ProviderTimeoutSec)*time.Second, log)

	pricingSvc := pricing.NewService(resolver)

	var rideEvents ride.Events
	if cfg.Rabbit.URL != "" {
		publisher, err := events.NewRabbitPublisher(cfg.Rabbit.URL)
		if err != nil {
			log.Error("connecting to rabbitmq", "err", err)
			os.Exit(1)
		}
		defer publisher.Close()
		rideEvents = publisher
	}

	rideStore := ride.NewPgStore(dbPool)
	rideSvc := ride.NewService(rideStore, matchingSvc, pricingSvc, rideEvents, log)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Rides:     rideSvc,
		Pricing:   pricingSvc,
		Locations: locationSvc,
		Geocode:   geocodeSvc,
		JWTSecret: cfg.Auth.Secret,
		Log:       log,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutting down http server", "err", err)
		}
	}()

	log.Info("gocab api listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server", "err", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
