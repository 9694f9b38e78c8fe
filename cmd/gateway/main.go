package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kaduart/fono-inova-gateway/internal/api"
	"github.com/kaduart/fono-inova-gateway/internal/core/ports"
	"github.com/kaduart/fono-inova-gateway/internal/core/service"
	redisstore "github.com/kaduart/fono-inova-gateway/internal/infrastructure/db/redis"
	"github.com/kaduart/fono-inova-gateway/internal/infrastructure/memory"
	"github.com/kaduart/fono-inova-gateway/internal/infrastructure/upstream"
	"github.com/kaduart/fono-inova-gateway/internal/pkg/config"
	"github.com/kaduart/fono-inova-gateway/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.SessionSecret == "" {
		log.Fatal().Msg("SESSION_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := upstream.New(upstream.Config{
		BaseURL: cfg.BaseURL(),
		Timeout: cfg.Upstream.Timeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure upstream client")
	}
	log.Info().Str("base_url", cfg.BaseURL()).Str("env", cfg.Env).Msg("upstream endpoint resolved")

	// Session state: Redis when configured, in-memory otherwise (development).
	var store ports.TokenStore
	var submits ports.SubmitGuard
	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisstore.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer func() { _ = rdb.Close() }()
		store = redisstore.NewTokenStore(rdb, cfg.Session.TTL, cfg.Session.RememberTTL)
		submits = redisstore.NewSubmitGuard(rdb, 0)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, using in-memory session state")
		store = memory.NewTokenStore(cfg.Session.TTL, cfg.Session.RememberTTL)
		submits = memory.NewSubmitGuard(0)
	}

	renewer := service.NewRenewer(store, client, cfg.Session.RenewInterval, log)
	defer renewer.Stop()

	sessions := service.NewSessions(store, client, renewer, cfg.SessionSecret, cfg.Session.TTL, cfg.Session.RememberTTL, log)

	e := api.NewRouter(cfg, api.Dependencies{
		Auth:      client,
		Directory: client,
		Leads:     client,
		Sessions:  sessions,
		Submits:   submits,
		Upstream:  client,
		Redis:     rdb,
	}, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("gateway listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
